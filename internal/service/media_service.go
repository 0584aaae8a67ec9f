package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
	"corpsite/pkg/youtube"
)

const resourceMedia = "youtube_media"

type MediaTranslationInput struct {
	Title       string `json:"title" validate:"max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// MediaInput accepts a YouTube url or bare video id.
type MediaInput struct {
	URL          string                           `json:"url" validate:"required,max=512"`
	IsActive     *bool                            `json:"is_active"`
	SortOrder    int                              `json:"sort_order" validate:"min=0"`
	Translations map[string]MediaTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

// VideoLookup fetches video metadata.
type VideoLookup interface {
	Lookup(ctx context.Context, id string) (*youtube.Video, error)
}

// MediaService manages embedded YouTube videos.
type MediaService struct {
	repo *repository.YoutubeMediaRepository
	yt   VideoLookup
	pub  *Publisher
}

func NewMediaService(repo *repository.YoutubeMediaRepository, yt VideoLookup, pub *Publisher) *MediaService {
	return &MediaService{repo: repo, yt: yt, pub: pub}
}

// Preview resolves a url to its video id and metadata without saving.
// Without an API key only the id, url and thumbnail are known.
func (s *MediaService) Preview(ctx context.Context, rawURL string) (*youtube.Video, error) {
	id, err := youtube.ExtractVideoID(rawURL)
	if err != nil {
		return nil, fieldError("url", "is not a YouTube video")
	}
	v, err := s.lookup(ctx, id)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, fieldError("url", "video does not exist")
		}
		return nil, err
	}
	return v, nil
}

func (s *MediaService) lookup(ctx context.Context, id string) (*youtube.Video, error) {
	if s.yt == nil {
		return &youtube.Video{ID: id, ThumbnailURL: youtube.ThumbnailURL(id)}, nil
	}
	v, err := s.yt.Lookup(ctx, id)
	if errors.Is(err, youtube.ErrDisabled) {
		return &youtube.Video{ID: id, ThumbnailURL: youtube.ThumbnailURL(id)}, nil
	}
	return v, err
}

// prepare validates input, resolves the video and fills translations the admin
// left empty from the video metadata.
func (s *MediaService) prepare(ctx context.Context, in *MediaInput, id uint, creating bool) (*youtube.Video, []models.YoutubeMediaTranslation, error) {
	ve := validateStruct(in)
	if err := ve.Err(); err != nil {
		return nil, nil, err
	}
	videoID, err := youtube.ExtractVideoID(in.URL)
	if err != nil {
		return nil, nil, fieldError("url", "is not a YouTube video")
	}
	taken, err := s.repo.VideoTaken(ctx, videoID, id)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, fieldError("url", "video is already added")
	}

	meta, err := s.lookup(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, nil, fieldError("url", "video does not exist")
		}
		// metadata is optional when the admin wrote the default title
		if t, ok := in.Translations[domain.DefaultLocale]; !ok || strings.TrimSpace(t.Title) == "" {
			return nil, nil, err
		}
		log.Ctx(ctx).Warn().Err(err).Str("video_id", videoID).Msg("youtube metadata lookup failed")
		meta = &youtube.Video{ID: videoID, ThumbnailURL: youtube.ThumbnailURL(videoID)}
	}

	if in.Translations == nil {
		in.Translations = map[string]MediaTranslationInput{}
	}
	if creating {
		if _, ok := in.Translations[domain.DefaultLocale]; !ok {
			in.Translations[domain.DefaultLocale] = MediaTranslationInput{}
		}
	}
	var trs []models.YoutubeMediaTranslation
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		title := strings.TrimSpace(t.Title)
		desc := strings.TrimSpace(t.Description)
		if title == "" {
			title = meta.Title
		}
		if desc == "" && loc == domain.DefaultLocale {
			desc = meta.Description
		}
		if title == "" {
			ve.Add("translations."+loc+".title", "is required")
			continue
		}
		trs = append(trs, models.YoutubeMediaTranslation{Locale: loc, Title: truncateRunes(title, 255), Description: desc})
	}
	return meta, trs, ve.Err()
}

func (s *MediaService) apply(m *models.YoutubeMedia, meta *youtube.Video, in *MediaInput) {
	m.VideoID = meta.ID
	m.URL = youtube.WatchURL(meta.ID)
	m.ThumbnailURL = meta.ThumbnailURL
	if meta.Duration != "" {
		m.Duration = meta.Duration
	}
	if meta.ChannelTitle != "" {
		m.ChannelTitle = meta.ChannelTitle
	}
	m.IsActive = boolOr(in.IsActive, m.IsActive || m.ID == 0)
	m.SortOrder = in.SortOrder
}

func (s *MediaService) Create(ctx context.Context, in MediaInput) (*models.YoutubeMedia, error) {
	meta, trs, err := s.prepare(ctx, &in, 0, true)
	if err != nil {
		return nil, err
	}
	m := &models.YoutubeMedia{}
	s.apply(m, meta, &in)
	if err := s.repo.Create(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceMedia, ActionCreate, m.ID, domain.TagMedia, domain.TagHome)
	return s.Get(ctx, m.ID)
}

func (s *MediaService) Update(ctx context.Context, id uint, in MediaInput) (*models.YoutubeMedia, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	meta, trs, err := s.prepare(ctx, &in, id, false)
	if err != nil {
		return nil, err
	}
	s.apply(m, meta, &in)
	if err := s.repo.Update(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceMedia, ActionUpdate, id, domain.TagMedia, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *MediaService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceMedia, ActionDelete, id, domain.TagMedia, domain.TagHome)
	return nil
}

func (s *MediaService) Get(ctx context.Context, id uint) (*models.YoutubeMedia, error) {
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *MediaService) List(ctx context.Context, p ListParams) (Page[models.YoutubeMedia], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.YoutubeMedia]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *MediaService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceMedia, ActionReorder, 0, domain.TagMedia, domain.TagHome)
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
