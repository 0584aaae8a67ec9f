package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"

	"corpsite/internal/observability"
)

// Client uploads and removes site images.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error)
	DeleteByURL(ctx context.Context, url string) error
}

// Crop is a pixel rectangle applied to the original before it is stored.
type Crop struct {
	X      int `json:"x" form:"x" binding:"min=0"`
	Y      int `json:"y" form:"y" binding:"min=0"`
	Width  int `json:"width" form:"width" binding:"gt=0"`
	Height int `json:"height" form:"height" binding:"gt=0"`
}

type UploadOptions struct {
	Folder   string
	PublicID string
	Crop     *Crop
}

type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	PublicID     string `json:"public_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// Optimized image params for fast frontend loading
const (
	ImageWidth = 1600
	ThumbWidth = 400
)

var ErrInvalidURL = errors.New("cloudinary: not a cloudinary asset url")

// BuildOptimizedImageURL returns a Cloudinary URL with transformations for optimized delivery.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_limit/%s",
		cloudName, width, publicID)
}

// CropTransformation renders c as an incoming transformation.
func CropTransformation(c *Crop) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("c_crop,x_%d,y_%d,w_%d,h_%d", c.X, c.Y, c.Width, c.Height)
}

// PublicIDFromURL extracts the public id from a delivery url such as
// https://res.cloudinary.com/demo/image/upload/c_fill,w_200/v1712/site/blogs/abc.jpg.
func PublicIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(u.Host, "cloudinary.com") {
		return "", ErrInvalidURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	i := 0
	for ; i < len(parts); i++ {
		if parts[i] == "upload" {
			break
		}
	}
	if i >= len(parts)-1 {
		return "", ErrInvalidURL
	}
	rest := parts[i+1:]
	for j, seg := range rest {
		// everything after the version is the public id
		if isVersion(seg) && j < len(rest)-1 {
			rest = rest[j+1:]
			break
		}
	}
	for len(rest) > 1 && isTransformation(rest[0]) {
		rest = rest[1:]
	}
	id := strings.Join(rest, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", ErrInvalidURL
	}
	return id, nil
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isTransformation matches segments like w_200 or c_fill,q_auto.
func isTransformation(s string) bool {
	for _, p := range strings.Split(s, ",") {
		k, _, ok := strings.Cut(p, "_")
		if !ok || len(k) == 0 || len(k) > 3 {
			return false
		}
		for _, r := range k {
			if r < 'a' || r > 'z' {
				return false
			}
		}
	}
	return true
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

// UploadImage uploads an image, cropping it first when opts.Crop is set.
func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error) {
	start := time.Now()
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:         opts.Folder,
		PublicID:       opts.PublicID,
		Transformation: CropTransformation(opts.Crop),
	})
	if err != nil {
		observability.ObserveExternal("cloudinary", "upload", 0, time.Since(start))
		return nil, err
	}
	if result.Error.Message != "" {
		observability.ObserveExternal("cloudinary", "upload", 400, time.Since(start))
		return nil, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	observability.ObserveExternal("cloudinary", "upload", 200, time.Since(start))
	return &UploadResult{
		URL:          result.SecureURL,
		ThumbnailURL: BuildOptimizedImageURL(c.cloudName, result.PublicID, ThumbWidth),
		PublicID:     result.PublicID,
		Width:        result.Width,
		Height:       result.Height,
	}, nil
}

// DeleteByURL destroys the asset behind a delivery url.
func (c *clientImpl) DeleteByURL(ctx context.Context, raw string) error {
	id, err := PublicIDFromURL(raw)
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		observability.ObserveExternal("cloudinary", "destroy", 0, time.Since(start))
		return err
	}
	observability.ObserveExternal("cloudinary", "destroy", 200, time.Since(start))
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", id, res.Result)
	}
	return nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
