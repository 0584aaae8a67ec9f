package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"

	"corpsite/internal/domain"
	"corpsite/pkg/cloudinary"
)

const resourceUpload = "upload"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// UploadService stores admin images on Cloudinary.
type UploadService struct {
	cloud cloudinary.Client
	root  string
	pub   *Publisher
}

// NewUploadService returns a service that reports ErrDisabled when cloud is nil.
func NewUploadService(cloud cloudinary.Client, root string, pub *Publisher) *UploadService {
	return &UploadService{cloud: cloud, root: strings.Trim(root, "/"), pub: pub}
}

// UploadImage checks the image type by content, then uploads it into folder
// with an optional crop.
func (s *UploadService) UploadImage(ctx context.Context, file io.Reader, folder string, crop *cloudinary.Crop) (*cloudinary.UploadResult, error) {
	if s.cloud == nil {
		return nil, ErrDisabled
	}
	if folder == "" {
		folder = domain.FolderMisc
	}
	if !slices.Contains(domain.UploadFolders, folder) {
		return nil, fieldError("folder", "must be one of "+strings.Join(domain.UploadFolders, " "))
	}
	if crop != nil && (crop.X < 0 || crop.Y < 0 || crop.Width <= 0 || crop.Height <= 0) {
		return nil, fieldError("crop", "is invalid")
	}

	br := bufio.NewReaderSize(file, 512)
	head, _ := br.Peek(512)
	if len(head) == 0 {
		return nil, fieldError("file", "is empty")
	}
	if ct := http.DetectContentType(head); !slices.Contains(allowedImageTypes, ct) {
		return nil, fieldError("file", "must be a JPEG, PNG, WebP or GIF image")
	}

	res, err := s.cloud.UploadImage(ctx, br, cloudinary.UploadOptions{
		Folder:   path.Join(s.root, folder),
		PublicID: "img_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Crop:     crop,
	})
	if err != nil {
		return nil, err
	}
	s.pub.Changed(ctx, resourceUpload, ActionCreate, 0)
	return res, nil
}

// DeleteImage removes a previously uploaded image by its delivery url.
func (s *UploadService) DeleteImage(ctx context.Context, url string) error {
	if s.cloud == nil {
		return ErrDisabled
	}
	if err := s.cloud.DeleteByURL(ctx, url); err != nil {
		if errors.Is(err, cloudinary.ErrInvalidURL) {
			return fieldError("url", "is not an uploaded image")
		}
		return err
	}
	s.pub.Changed(ctx, resourceUpload, ActionDelete, 0)
	return nil
}
