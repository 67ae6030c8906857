package models

import (
	"errors"
	"strings"
)

// Video is a single catalog record as returned by the Vimeo API.
// Field names follow the wire schema, so a Video decodes straight
// out of a response body.
type Video struct {
	URI            string    `json:"uri"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Duration       int       `json:"duration"`
	CreatedTime    string    `json:"created_time"`
	Pictures       *Pictures `json:"pictures,omitempty"`
	Files          []File    `json:"files,omitempty"`
	PlayerEmbedURL string    `json:"player_embed_url,omitempty"`
}

// Pictures groups the thumbnail variants of a video.
type Pictures struct {
	Sizes []ImageSize `json:"sizes,omitempty"`
}

// ImageSize is one thumbnail variant.
type ImageSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Link   string `json:"link"`
}

// File is one playable variant of a video.
type File struct {
	Quality string `json:"quality"`
	Type    string `json:"type"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Link    string `json:"link"`
}

// VideoPage is one page of catalog results.
type VideoPage struct {
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Data    []Video `json:"data"`
}

// QualityHD is the quality tag preferred when resolving a playback source.
const QualityHD = "hd"

// ID returns the canonical video id, the last path segment of the URI.
func (v *Video) ID() string {
	if v.URI == "" {
		return ""
	}
	parts := strings.Split(v.URI, "/")
	return parts[len(parts)-1]
}

// ThumbnailURL returns the link of the largest thumbnail variant, or ""
// when the video carries no pictures. The server does not guarantee the
// sizes list is sorted, so the largest is found by comparing areas
// rather than taking a positional element. Ties keep the later entry.
func (v *Video) ThumbnailURL() string {
	if v.Pictures == nil {
		return ""
	}
	best := ""
	bestArea := -1
	for _, s := range v.Pictures.Sizes {
		if area := s.Width * s.Height; area >= bestArea {
			best = s.Link
			bestArea = area
		}
	}
	return best
}

// PlaybackURL returns the link of the first "hd" file variant, else the
// first file variant, else "" when the video has no files.
func (v *Video) PlaybackURL() string {
	for _, f := range v.Files {
		if f.Quality == QualityHD {
			return f.Link
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0].Link
	}
	return ""
}

// Validation errors returned by Video.Validate.
var (
	ErrEmptyURI         = errors.New("video: empty uri")
	ErrNegativeDuration = errors.New("video: negative duration")
	ErrEmptyFileList    = errors.New("video: files present but empty")
	ErrEmptySizeList    = errors.New("video: picture sizes present but empty")
)

// Validate checks the record invariants: non-empty URI, non-negative
// duration, and file/thumbnail lists that are non-empty when present.
func (v *Video) Validate() error {
	if v.URI == "" {
		return ErrEmptyURI
	}
	if v.Duration < 0 {
		return ErrNegativeDuration
	}
	if v.Files != nil && len(v.Files) == 0 {
		return ErrEmptyFileList
	}
	if v.Pictures != nil && v.Pictures.Sizes != nil && len(v.Pictures.Sizes) == 0 {
		return ErrEmptySizeList
	}
	return nil
}
