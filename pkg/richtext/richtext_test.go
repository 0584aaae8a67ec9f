package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name, in, contains, absent string
	}{
		{"keeps formatting", `<p><strong>Bold</strong> text</p>`, "<strong>Bold</strong>", ""},
		{"drops script", `<p>x</p><script>alert(1)</script>`, "<p>x</p>", "script"},
		{"drops handlers", `<img src="https://cdn.example.com/a.jpg" onerror="alert(1)">`, `src="https://cdn.example.com/a.jpg"`, "onerror"},
		{"keeps youtube embed", `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`, "youtube.com/embed/dQw4w9WgXcQ", ""},
		{"drops foreign iframe src", `<iframe src="https://evil.example.com/x"></iframe>`, "", "evil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(tt.in)
			if tt.contains != "" {
				assert.Contains(t, out, tt.contains)
			}
			if tt.absent != "" {
				assert.NotContains(t, out, tt.absent)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world", PlainText("<p>Hello <b>world</b></p>"))
}
