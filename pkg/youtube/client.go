// Package youtube looks up video metadata from the YouTube Data API.
package youtube

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"corpsite/internal/observability"
)

var (
	ErrNotFound = errors.New("youtube: video not found")
	ErrDisabled = errors.New("youtube: api key not configured")
)

const maxAttempts = 3

// Video is the metadata kept for an embedded video.
type Video struct {
	ID           string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     string `json:"duration"`
	PublishedAt  string `json:"published_at"`
}

type Client struct {
	svc *ytapi.Service
	err error
	key string
	rl  *rate.Limiter
}

// New returns a client for the API rooted at base (empty means Google's
// endpoint). Without a key the client is disabled.
func New(base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	c := &Client{key: key, rl: rate.NewLimiter(rate.Limit(rps), rps)}
	if key == "" {
		return c
	}
	hc := &http.Client{
		Timeout:   10 * time.Second,
		Transport: &transport.APIKey{Key: key, Transport: observed{http.DefaultTransport}},
	}
	c.svc, c.err = ytapi.NewService(context.Background(), option.WithHTTPClient(hc))
	if c.svc != nil && base != "" {
		c.svc.BasePath = strings.TrimRight(base, "/") + "/"
	}
	return c
}

func (c *Client) Enabled() bool { return c != nil && c.key != "" }

// Lookup fetches title, description, channel, thumbnail and duration of id.
func (c *Client) Lookup(ctx context.Context, id string) (*Video, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if c.err != nil {
		return nil, c.err
	}
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		res *ytapi.VideoListResponse
		err error
	)
	for i := 0; i < maxAttempts; i++ {
		res, err = c.svc.Videos.List([]string{"snippet", "contentDetails"}).Id(id).Context(ctx).Do()
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			if gerr.Code == http.StatusNotFound {
				return nil, ErrNotFound
			}
			if !retryable(gerr.Code) {
				return nil, fmt.Errorf("youtube: bad status %d: %s", gerr.Code, gerr.Message)
			}
			err = fmt.Errorf("youtube: remote %d", gerr.Code)
		}
		wait := backoff(i)
		if gerr != nil {
			if d, ok := retryAfter(gerr.Header); ok {
				wait = d
			}
		}
		if i == maxAttempts-1 || !sleepCtx(ctx, wait) {
			break
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if len(res.Items) == 0 || res.Items[0].Snippet == nil {
		return nil, ErrNotFound
	}

	it := res.Items[0]
	v := &Video{
		ID:           id,
		Title:        it.Snippet.Title,
		Description:  it.Snippet.Description,
		ChannelTitle: it.Snippet.ChannelTitle,
		PublishedAt:  it.Snippet.PublishedAt,
		ThumbnailURL: bestThumbnail(it.Snippet.Thumbnails),
	}
	if v.ThumbnailURL == "" {
		v.ThumbnailURL = ThumbnailURL(id)
	}
	if it.ContentDetails != nil {
		v.Duration = FormatDuration(it.ContentDetails.Duration)
	}
	return v, nil
}

func bestThumbnail(d *ytapi.ThumbnailDetails) string {
	if d == nil {
		return ""
	}
	for _, t := range []*ytapi.Thumbnail{d.Maxres, d.Standard, d.High, d.Medium, d.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration renders an ISO-8601 duration (PT1H2M3S) as 1:02:03 or 4:05.
// Unparseable input is returned unchanged.
func FormatDuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil || iso == "P" || iso == "PT" {
		return iso
	}
	n := func(s string) int {
		v, _ := strconv.Atoi(s)
		return v
	}
	h := n(m[1])*24 + n(m[2])
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, n(m[3]), n(m[4]))
	}
	return fmt.Sprintf("%d:%02d", n(m[3]), n(m[4]))
}

// observed records status and latency of every call to the API.
type observed struct {
	next http.RoundTripper
}

func (o observed) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := o.next.RoundTrip(req)
	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	observability.ObserveExternal("youtube", "videos", status, time.Since(start))
	return resp, err
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// sleepCtx waits for d or returns false if ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date).
func retryAfter(h http.Header) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(time.Until(t), 0), true
	}
	return 0, false
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(0.5*float64(b[0])/255.0*float64(base))
}
