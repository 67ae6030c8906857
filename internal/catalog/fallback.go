package catalog

import "github.com/therealutkarshpriyadarshi/streamview/pkg/models"

// FallbackVideos returns the fixed demo dataset substituted when a
// showcase fetch fails or comes back empty, so the UI never renders an
// empty shelf. Always a fresh slice; callers may not share state.
func FallbackVideos() []models.Video {
	return []models.Video{
		{
			URI:         "/videos/123456789",
			Name:        "Sample Video 1",
			Description: "This is a sample video for demonstration purposes.",
			Duration:    300,
			CreatedTime: "2024-01-01T00:00:00+00:00",
			Pictures: &models.Pictures{Sizes: []models.ImageSize{
				{Width: 1920, Height: 1080, Link: "https://via.placeholder.com/1920x1080/333333/FFFFFF?text=Sample+Video+1"},
			}},
			Files: []models.File{
				{Quality: "hd", Type: "video/mp4", Width: 1920, Height: 1080, Link: "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4"},
			},
			PlayerEmbedURL: "https://player.vimeo.com/video/123456789",
		},
		{
			URI:         "/videos/123456790",
			Name:        "Sample Video 2",
			Description: "Another sample video for demonstration.",
			Duration:    450,
			CreatedTime: "2024-01-02T00:00:00+00:00",
			Pictures: &models.Pictures{Sizes: []models.ImageSize{
				{Width: 1920, Height: 1080, Link: "https://via.placeholder.com/1920x1080/666666/FFFFFF?text=Sample+Video+2"},
			}},
			Files: []models.File{
				{Quality: "hd", Type: "video/mp4", Width: 1920, Height: 1080, Link: "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_2mb.mp4"},
			},
			PlayerEmbedURL: "https://player.vimeo.com/video/123456790",
		},
		{
			URI:         "/videos/123456791",
			Name:        "Sample Video 3",
			Description: "Third sample video for the showcase.",
			Duration:    600,
			CreatedTime: "2024-01-03T00:00:00+00:00",
			Pictures: &models.Pictures{Sizes: []models.ImageSize{
				{Width: 1920, Height: 1080, Link: "https://via.placeholder.com/1920x1080/999999/FFFFFF?text=Sample+Video+3"},
			}},
			Files: []models.File{
				{Quality: "hd", Type: "video/mp4", Width: 1920, Height: 1080, Link: "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_5mb.mp4"},
			},
			PlayerEmbedURL: "https://player.vimeo.com/video/123456791",
		},
	}
}
