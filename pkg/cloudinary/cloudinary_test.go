package cloudinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "https://res.cloudinary.com/demo/image/upload/site/blogs/abc.jpg", "site/blogs/abc"},
		{"versioned", "https://res.cloudinary.com/demo/image/upload/v1712345/site/blogs/abc.png", "site/blogs/abc"},
		{"transformed", "https://res.cloudinary.com/demo/image/upload/q_auto,f_auto,w_400,c_limit/site/abc.webp", "site/abc"},
		{"transformed and versioned", "https://res.cloudinary.com/demo/image/upload/c_crop,x_1,y_2,w_3,h_4/v99/misc/x.jpg", "misc/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PublicIDFromURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublicIDFromURL_Rejects(t *testing.T) {
	for _, u := range []string{"https://example.com/image/upload/a.jpg", "https://res.cloudinary.com/demo/image/upload/", "::"} {
		_, err := PublicIDFromURL(u)
		assert.ErrorIs(t, err, ErrInvalidURL, u)
	}
}

func TestCropTransformation(t *testing.T) {
	assert.Empty(t, CropTransformation(nil))
	assert.Equal(t, "c_crop,x_10,y_20,w_300,h_200", CropTransformation(&Crop{X: 10, Y: 20, Width: 300, Height: 200}))
}
