package scrape

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style.*?</style>`)
	noRe     = regexp.MustCompile(`(?is)<noscript.*?</noscript>`)
	headRe   = regexp.MustCompile(`(?is)<head.*?</head>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// ExtractText performs best-effort plain-text extraction from an HTML page:
// script/style/head blocks are dropped, remaining tags stripped, entities
// decoded, and whitespace collapsed. Markup that is not well formed degrades
// to whatever text survives; callers treat the output as advisory context,
// not as a faithful rendering.
func ExtractText(page string) string {
	page = scriptRe.ReplaceAllString(page, " ")
	page = styleRe.ReplaceAllString(page, " ")
	page = noRe.ReplaceAllString(page, " ")
	page = headRe.ReplaceAllString(page, " ")
	page = tagRe.ReplaceAllString(page, " ")
	page = html.UnescapeString(page)
	return strings.Join(strings.Fields(page), " ")
}
