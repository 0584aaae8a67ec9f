package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://vimeo.com/123456", "", true},
		{"https://www.youtube.com/watch?v=short", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExtractVideoID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidVideo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "4:13", FormatDuration("PT4M13S"))
	assert.Equal(t, "1:02:03", FormatDuration("PT1H2M3S"))
	assert.Equal(t, "0:45", FormatDuration("PT45S"))
	assert.Equal(t, "26:00:00", FormatDuration("P1DT2H"))
	assert.Equal(t, "bogus", FormatDuration("bogus"))
}

const videosBody = `{"items":[{"id":"dQw4w9WgXcQ","snippet":{"title":"Launch","description":"Desc","channelTitle":"Acme",
"publishedAt":"2024-01-02T03:04:05Z","thumbnails":{"default":{"url":"https://i.ytimg.com/d.jpg"},"high":{"url":"https://i.ytimg.com/h.jpg"}}},
"contentDetails":{"duration":"PT3M7S"}}]}`

func TestClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		assert.Equal(t, []string{"snippet", "contentDetails"}, r.URL.Query()["part"])
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		if r.URL.Query().Get("id") != "dQw4w9WgXcQ" {
			_, _ = w.Write([]byte(`{"items":[]}`))
			return
		}
		_, _ = w.Write([]byte(videosBody))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", 100)
	v, err := c.Lookup(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Launch", v.Title)
	assert.Equal(t, "Acme", v.ChannelTitle)
	assert.Equal(t, "3:07", v.Duration)
	assert.Equal(t, "https://i.ytimg.com/h.jpg", v.ThumbnailURL)

	_, err = c.Lookup(context.Background(), "aaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(videosBody))
	}))
	defer srv.Close()

	v, err := New(srv.URL, "k", 100).Lookup(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Launch", v.Title)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Disabled(t *testing.T) {
	_, err := New("http://unused", "", 1).Lookup(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestClient_ErrorStatuses(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("id") {
		case "gone":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"video not found"}}`))
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota exceeded"}}`))
		}
	}))
	defer srv.Close()
	c := New(srv.URL, "k", 100)

	_, err := c.Lookup(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup(context.Background(), "denied")
	assert.ErrorContains(t, err, "403")
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "client errors are not retried")
}
