package service

import (
	"time"

	"github.com/shopspring/decimal"

	"corpsite/internal/models"
	"corpsite/pkg/youtube"
)

// Public views flatten an entity and its translation for one locale.

// Alternate points at the same entity in another locale.
type Alternate struct {
	Locale string `json:"locale"`
	Slug   string `json:"slug"`
}

type SeoView struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords,omitempty"`
	OgImageURL      string `json:"og_image_url,omitempty"`
	NoIndex         bool   `json:"no_index"`
}

type BlogCard struct {
	ID          uint       `json:"id"`
	Locale      string     `json:"locale"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	ImageURL    string     `json:"image_url"`
	PublishedAt *time.Time `json:"published_at"`
	ViewCount   int64      `json:"view_count"`
}

type BlogDetail struct {
	BlogCard
	Content    string      `json:"content"`
	Seo        SeoView     `json:"seo"`
	Alternates []Alternate `json:"alternates"`
}

type ServiceCard struct {
	ID       uint   `json:"id"`
	Locale   string `json:"locale"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	ImageURL string `json:"image_url"`
	IconURL  string `json:"icon_url"`
}

type ServiceDetail struct {
	ServiceCard
	Content    string      `json:"content"`
	Seo        SeoView     `json:"seo"`
	Alternates []Alternate `json:"alternates"`
}

type EmployeeView struct {
	ID          uint   `json:"id"`
	FullName    string `json:"full_name"`
	Position    string `json:"position"`
	Bio         string `json:"bio"`
	ImageURL    string `json:"image_url"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

type TestimonialView struct {
	ID          uint   `json:"id"`
	AuthorName  string `json:"author_name"`
	AuthorTitle string `json:"author_title"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
	Rating      int    `json:"rating"`
}

type BranchView struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	WorkingHours string   `json:"working_hours"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	MapURL       string   `json:"map_url"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	IsHeadOffice bool     `json:"is_head_office"`
}

type SliderView struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ButtonText string `json:"button_text"`
	ImageURL   string `json:"image_url"`
	LinkURL    string `json:"link_url"`
}

type StatisticView struct {
	ID     uint            `json:"id"`
	Label  string          `json:"label"`
	Value  decimal.Decimal `json:"value"`
	Suffix string          `json:"suffix"`
	Icon   string          `json:"icon"`
}

type MediaView struct {
	ID           uint   `json:"id"`
	VideoID      string `json:"video_id"`
	URL          string `json:"url"`
	EmbedURL     string `json:"embed_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     string `json:"duration"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

// HomeData is everything the landing page renders.
type HomeData struct {
	Sliders      []SliderView      `json:"sliders"`
	Services     []ServiceCard     `json:"services"`
	Statistics   []StatisticView   `json:"statistics"`
	Testimonials []TestimonialView `json:"testimonials"`
	Blogs        []BlogCard        `json:"blogs"`
	Employees    []EmployeeView    `json:"employees"`
	Media        []MediaView       `json:"media"`
	Branches     []BranchView      `json:"branches"`
	Settings     map[string]string `json:"settings"`
}

func blogCard(b *models.Blog, locale string) BlogCard {
	tr, _ := models.PickTranslation(b.Translations, locale)
	return BlogCard{
		ID:          b.ID,
		Locale:      tr.Locale,
		Slug:        tr.Slug,
		Title:       tr.Title,
		Summary:     tr.Summary,
		ImageURL:    b.ImageURL,
		PublishedAt: b.PublishedAt,
		ViewCount:   b.ViewCount,
	}
}

func blogDetail(b *models.Blog, locale string) *BlogDetail {
	tr, _ := models.PickTranslation(b.Translations, locale)
	d := &BlogDetail{BlogCard: blogCard(b, locale), Content: tr.Content}
	d.Seo = seoView(b.Seo, tr.Locale, tr.Title, tr.Summary, b.ImageURL)
	for _, t := range b.Translations {
		d.Alternates = append(d.Alternates, Alternate{Locale: t.Locale, Slug: t.Slug})
	}
	return d
}

func serviceCard(s *models.Service, locale string) ServiceCard {
	tr, _ := models.PickTranslation(s.Translations, locale)
	return ServiceCard{
		ID:       s.ID,
		Locale:   tr.Locale,
		Slug:     tr.Slug,
		Title:    tr.Title,
		Summary:  tr.Summary,
		ImageURL: s.ImageURL,
		IconURL:  s.IconURL,
	}
}

func serviceDetail(s *models.Service, locale string) *ServiceDetail {
	tr, _ := models.PickTranslation(s.Translations, locale)
	d := &ServiceDetail{ServiceCard: serviceCard(s, locale), Content: tr.Content}
	d.Seo = seoView(s.Seo, tr.Locale, tr.Title, tr.Summary, s.ImageURL)
	for _, t := range s.Translations {
		d.Alternates = append(d.Alternates, Alternate{Locale: t.Locale, Slug: t.Slug})
	}
	return d
}

// seoView falls back to the translation's title and summary when no SEO row
// exists for locale or a field was left blank.
func seoView(rows []models.SeoMeta, locale, title, summary, image string) SeoView {
	v := SeoView{MetaTitle: title, MetaDescription: truncateRunes(summary, 160), OgImageURL: image}
	for _, s := range rows {
		if s.Locale != locale {
			continue
		}
		if s.MetaTitle != "" {
			v.MetaTitle = s.MetaTitle
		}
		if s.MetaDescription != "" {
			v.MetaDescription = s.MetaDescription
		}
		if s.OgImageURL != "" {
			v.OgImageURL = s.OgImageURL
		}
		v.MetaKeywords = s.MetaKeywords
		v.NoIndex = s.NoIndex
	}
	return v
}

func employeeView(e *models.Employee, locale string) EmployeeView {
	tr, _ := models.PickTranslation(e.Translations, locale)
	return EmployeeView{
		ID:          e.ID,
		FullName:    tr.FullName,
		Position:    tr.Position,
		Bio:         tr.Bio,
		ImageURL:    e.ImageURL,
		Email:       e.Email,
		Phone:       e.Phone,
		LinkedInURL: e.LinkedInURL,
	}
}

func testimonialView(t *models.Testimonial, locale string) TestimonialView {
	tr, _ := models.PickTranslation(t.Translations, locale)
	return TestimonialView{
		ID:          t.ID,
		AuthorName:  tr.AuthorName,
		AuthorTitle: tr.AuthorTitle,
		Content:     tr.Content,
		ImageURL:    t.ImageURL,
		Rating:      t.Rating,
	}
}

func branchView(b *models.Branch, locale string) BranchView {
	tr, _ := models.PickTranslation(b.Translations, locale)
	return BranchView{
		ID:           b.ID,
		Name:         tr.Name,
		Address:      tr.Address,
		WorkingHours: tr.WorkingHours,
		Phone:        b.Phone,
		Email:        b.Email,
		MapURL:       b.MapURL,
		Latitude:     b.Latitude,
		Longitude:    b.Longitude,
		IsHeadOffice: b.IsHeadOffice,
	}
}

func sliderView(s *models.Slider, locale string) SliderView {
	tr, _ := models.PickTranslation(s.Translations, locale)
	return SliderView{
		ID:         s.ID,
		Title:      tr.Title,
		Subtitle:   tr.Subtitle,
		ButtonText: tr.ButtonText,
		ImageURL:   s.ImageURL,
		LinkURL:    s.LinkURL,
	}
}

func statisticView(s *models.Statistic, locale string) StatisticView {
	tr, _ := models.PickTranslation(s.Translations, locale)
	return StatisticView{ID: s.ID, Label: tr.Label, Value: s.Value, Suffix: s.Suffix, Icon: s.Icon}
}

func mediaView(m *models.YoutubeMedia, locale string) MediaView {
	tr, _ := models.PickTranslation(m.Translations, locale)
	return MediaView{
		ID:           m.ID,
		VideoID:      m.VideoID,
		URL:          m.URL,
		EmbedURL:     youtube.EmbedURL(m.VideoID),
		ThumbnailURL: m.ThumbnailURL,
		Duration:     m.Duration,
		Title:        tr.Title,
		Description:  tr.Description,
	}
}

// mapViews converts list with f, never returning nil.
func mapViews[M any, V any](list []M, locale string, f func(*M, string) V) []V {
	out := make([]V, 0, len(list))
	for i := range list {
		out = append(out, f(&list[i], locale))
	}
	return out
}
