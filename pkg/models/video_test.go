package models

import (
	"encoding/json"
	"testing"
)

func TestVideoDecode(t *testing.T) {
	body := []byte(`{
		"uri": "/videos/123456789",
		"name": "Test Video",
		"description": "A test video",
		"duration": 300,
		"created_time": "2024-01-01T00:00:00+00:00",
		"pictures": {"sizes": [{"width": 640, "height": 360, "link": "https://example.com/small.jpg"}]},
		"files": [{"quality": "hd", "type": "video/mp4", "width": 1920, "height": 1080, "link": "https://example.com/video.mp4"}],
		"player_embed_url": "https://player.example.com/video/123456789"
	}`)

	var v Video
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("Failed to decode video: %v", err)
	}

	if v.URI != "/videos/123456789" {
		t.Errorf("Expected uri /videos/123456789, got %s", v.URI)
	}
	if v.Duration != 300 {
		t.Errorf("Expected duration 300, got %d", v.Duration)
	}
	if v.Pictures == nil || len(v.Pictures.Sizes) != 1 {
		t.Fatal("Expected one picture size")
	}
	if len(v.Files) != 1 || v.Files[0].Quality != "hd" {
		t.Errorf("Expected one hd file, got %+v", v.Files)
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"normal uri", "/videos/123456789", "123456789"},
		{"no slash", "123456789", "123456789"},
		{"trailing segment", "/users/1/videos/42", "42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Video{URI: tt.uri}
			if got := v.ID(); got != tt.expected {
				t.Errorf("Expected id %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestVideoThumbnailURL(t *testing.T) {
	tests := []struct {
		name     string
		pictures *Pictures
		expected string
	}{
		{"no pictures", nil, ""},
		{"nil sizes", &Pictures{}, ""},
		{
			"largest wins regardless of order",
			&Pictures{Sizes: []ImageSize{
				{Width: 1920, Height: 1080, Link: "https://example.com/large.jpg"},
				{Width: 640, Height: 360, Link: "https://example.com/small.jpg"},
			}},
			"https://example.com/large.jpg",
		},
		{
			"ascending order",
			&Pictures{Sizes: []ImageSize{
				{Width: 100, Height: 75, Link: "https://example.com/tiny.jpg"},
				{Width: 1280, Height: 720, Link: "https://example.com/big.jpg"},
			}},
			"https://example.com/big.jpg",
		},
		{
			"tie keeps later entry",
			&Pictures{Sizes: []ImageSize{
				{Width: 640, Height: 360, Link: "https://example.com/a.jpg"},
				{Width: 640, Height: 360, Link: "https://example.com/b.jpg"},
			}},
			"https://example.com/b.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Video{Pictures: tt.pictures}
			if got := v.ThumbnailURL(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestVideoPlaybackURL(t *testing.T) {
	tests := []struct {
		name     string
		files    []File
		expected string
	}{
		{
			"prefers hd",
			[]File{
				{Quality: "sd", Link: "https://example.com/sd.mp4"},
				{Quality: "hd", Link: "https://example.com/hd.mp4"},
			},
			"https://example.com/hd.mp4",
		},
		{
			"falls back to first file",
			[]File{
				{Quality: "sd", Link: "https://example.com/sd.mp4"},
				{Quality: "mobile", Link: "https://example.com/mobile.mp4"},
			},
			"https://example.com/sd.mp4",
		},
		{"no files", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Video{Files: tt.files}
			if got := v.PlaybackURL(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestVideoValidate(t *testing.T) {
	valid := Video{URI: "/videos/1", Name: "v", Duration: 10}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid video, got %v", err)
	}

	tests := []struct {
		name     string
		video    Video
		expected error
	}{
		{"empty uri", Video{Duration: 1}, ErrEmptyURI},
		{"negative duration", Video{URI: "/videos/1", Duration: -1}, ErrNegativeDuration},
		{"empty files", Video{URI: "/videos/1", Files: []File{}}, ErrEmptyFileList},
		{"empty sizes", Video{URI: "/videos/1", Pictures: &Pictures{Sizes: []ImageSize{}}}, ErrEmptySizeList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.video.Validate(); err != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestVideoPageDecode(t *testing.T) {
	body := []byte(`{"total": 2, "page": 1, "per_page": 25, "data": [
		{"uri": "/videos/1", "name": "First", "duration": 10, "created_time": "2024-01-01T00:00:00+00:00"},
		{"uri": "/videos/2", "name": "Second", "duration": 20, "created_time": "2024-01-02T00:00:00+00:00"}
	]}`)

	var page VideoPage
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("Failed to decode page: %v", err)
	}

	if page.Total != 2 || page.PerPage != 25 {
		t.Errorf("Unexpected page header: %+v", page)
	}
	if len(page.Data) != 2 || page.Data[0].Name != "First" || page.Data[1].Name != "Second" {
		t.Errorf("Expected records in server order, got %+v", page.Data)
	}
}
