// Package display adjusts the visible text of rendered internal links.
// It is a presentation-only transform: stored note text is never touched,
// and the result is recomputed on every render pass.
package display

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// internalLinkSel matches rendered wikilinks in host preview HTML.
const internalLinkSel = "a.internal-link[data-href]"

// Shorten rewrites the visible text of internal-link anchors in a rendered
// HTML fragment. A link resolving to <folder>/<shortTarget> displays as
// "folder/"; anything else displays as its plain file name, folder
// qualification stripped regardless of uniqueness.
func Shorten(html, shortTarget string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html, err
	}

	doc.Find(internalLinkSel).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("data-href")
		if !ok {
			return
		}
		sel.SetText(Label(href, shortTarget))
	})

	// goquery wraps fragments in a full document; return the body content.
	out, err := doc.Find("body").Html()
	if err != nil {
		return html, err
	}
	return out, nil
}

// Label returns the display text for one resolved link path.
func Label(href, shortTarget string) string {
	segs := strings.Split(href, "/")
	last := segs[len(segs)-1]
	if len(segs) >= 2 && shortTarget != "" && last == shortTarget {
		return segs[len(segs)-2] + "/"
	}
	return last
}
