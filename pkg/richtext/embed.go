package richtext

import "regexp"

var youtubeEmbed = regexp.MustCompile(`^https://(www\.)?(youtube\.com|youtube-nocookie\.com)/embed/[A-Za-z0-9_-]{11}(\?[A-Za-z0-9_=&-]*)?$`)
