package fetcher

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/webfetch/webfetch/internal/utils"
)

// ExtractMetaContentType returns a Content-Type-like string declared by the
// page itself, from <meta charset="..."> or
// <meta http-equiv="Content-Type" content="...">. The result is a raw
// declaration for the charset parser; "" means the page declares nothing.
func ExtractMetaContentType(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	if v, ok := doc.Find("meta[charset]").First().Attr("charset"); ok && v != "" {
		return "charset=" + v
	}

	var content string
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if equiv, _ := sel.Attr("http-equiv"); !strings.EqualFold(equiv, "Content-Type") {
			return true
		}
		if v, ok := sel.Attr("content"); ok && v != "" {
			content = v
			return false
		}
		return true
	})
	return content
}

// ExtractLinks returns the absolute form of every <a href> in the page,
// resolved against baseURL, in document order without duplicates. Non-HTTP
// references (mailto:, javascript:, bare fragments) are skipped.
func ExtractLinks(body []byte, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "data:") {
			return
		}

		resolved, err := utils.ResolveURL(baseURL, href)
		if err != nil {
			return
		}
		if !strings.HasPrefix(resolved, "http://") && !strings.HasPrefix(resolved, "https://") {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// ExtractTitle returns the page title, trimmed, or "".
func ExtractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
