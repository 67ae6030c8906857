package vimeo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/streamview/pkg/models"
)

// PerPage is the fixed page size requested from the catalog endpoints.
const PerPage = 25

// DefaultUserAgent identifies the app to the API.
const DefaultUserAgent = "StreamingApp/1.0"

// acceptHeader pins the API version.
const acceptHeader = "application/vnd.vimeo.*+json;version=3.4"

// Client issues requests against the Vimeo API.
type Client struct {
	base        string
	accessToken string
	userAgent   string
	http        *http.Client
}

// Config holds the client settings.
type Config struct {
	BaseURL     string
	AccessToken string
	UserAgent   string
	Timeout     time.Duration
}

// New creates an API client.
func New(cfg Config) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		userAgent:   ua,
		http:        &http.Client{Timeout: timeout},
	}
}

// ShowcaseVideos lists the videos belonging to a showcase (album).
func (c *Client) ShowcaseVideos(ctx context.Context, showcaseID string) (*models.VideoPage, error) {
	u := fmt.Sprintf("%s/albums/%s/videos?per_page=%d", c.base, url.PathEscape(showcaseID), PerPage)
	return c.getPage(ctx, "showcase", u)
}

// SearchVideos searches the catalog. The query is percent-encoded
// before transmission.
func (c *Client) SearchVideos(ctx context.Context, query string) (*models.VideoPage, error) {
	u := fmt.Sprintf("%s/videos?query=%s&per_page=%d", c.base, url.QueryEscape(query), PerPage)
	return c.getPage(ctx, "search", u)
}

// CheckConnection probes the /me endpoint to verify connectivity and
// credentials. A nil error means the token is accepted.
func (c *Client) CheckConnection(ctx context.Context) error {
	const op = "check"
	res, err := c.get(ctx, op, c.base+"/me")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return apiErr(op, classifyStatus(res.StatusCode), res.StatusCode, nil)
	}
	return nil
}

func (c *Client) getPage(ctx context.Context, op, u string) (*models.VideoPage, error) {
	res, err := c.get(ctx, op, u)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, apiErr(op, classifyStatus(res.StatusCode), res.StatusCode, nil)
	}

	var page models.VideoPage
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, apiErr(op, ErrDecode, res.StatusCode, err)
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, op, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apiErr(op, ErrTransport, 0, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, apiErr(op, ErrTransport, 0, err)
	}
	return res, nil
}
