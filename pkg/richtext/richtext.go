// Package richtext sanitizes HTML written in the admin editor.
package richtext

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
	strict = bluemonday.StrictPolicy()
)

func ugc() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Globally()
		p.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")
		p.AllowAttrs("allowfullscreen", "frameborder").OnElements("iframe")
		p.AllowAttrs("src").Matching(youtubeEmbed).OnElements("iframe")
		p.AllowAttrs("width", "height").Matching(bluemonday.Number).OnElements("iframe")
		p.RequireNoFollowOnLinks(false)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Sanitize keeps editor formatting, images, links and YouTube embeds.
func Sanitize(html string) string {
	return strings.TrimSpace(ugc().Sanitize(html))
}

// PlainText strips every tag.
func PlainText(html string) string {
	return strings.TrimSpace(strict.Sanitize(html))
}
