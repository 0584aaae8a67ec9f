package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPickTranslation(t *testing.T) {
	rows := []BlogTranslation{
		{Locale: "en", Title: "Hello"},
		{Locale: "az", Title: "Salam"},
	}

	tr, ok := PickTranslation(rows, "en")
	assert.True(t, ok)
	assert.Equal(t, "Hello", tr.Title)

	tr, ok = PickTranslation(rows, "ru")
	assert.True(t, ok)
	assert.Equal(t, "Salam", tr.Title, "falls back to default locale")

	tr, ok = PickTranslation([]BlogTranslation{{Locale: "ru", Title: "Привет"}}, "en")
	assert.True(t, ok)
	assert.Equal(t, "Привет", tr.Title, "falls back to first row")

	_, ok = PickTranslation([]BlogTranslation{}, "en")
	assert.False(t, ok)

	assert.True(t, HasLocale(rows, "az"))
	assert.False(t, HasLocale(rows, "ru"))
}

func TestBlogVisible(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, (&Blog{IsPublished: true}).Visible(now))
	assert.True(t, (&Blog{IsPublished: true, PublishedAt: &past}).Visible(now))
	assert.False(t, (&Blog{IsPublished: true, PublishedAt: &future}).Visible(now))
	assert.False(t, (&Blog{IsPublished: false}).Visible(now))
}
