package fingerprint

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// socialHosts are the hosts whose links count as social profile evidence.
var socialHosts = []string{ //nolint: gochecknoglobals
	"linkedin.com",
	"twitter.com",
	"x.com",
	"facebook.com",
	"instagram.com",
	"youtube.com",
}

// Evidence is the passive page evidence rules are evaluated against.
type Evidence struct {
	// Body is the raw HTML.
	Body string
	// Headers maps lowercase header names to their comma-joined values.
	Headers map[string]string
	// Meta maps lowercase meta names to every content value seen for them.
	Meta map[string][]string

	SocialLinks []string
	Phones      []string
}

// NormalizeHeaders lowercases header names and joins repeated values.
func NormalizeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}

	return out
}

// NewEvidence extracts rule evidence from a fetched page. Unparseable HTML
// still yields body and header evidence.
func NewEvidence(html []byte, headers http.Header) *Evidence {
	ev := &Evidence{
		Body:    string(html),
		Headers: NormalizeHeaders(headers),
		Meta:    map[string][]string{},
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ev
	}

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		name = strings.ToLower(strings.TrimSpace(name))
		content, ok := s.Attr("content")
		if name == "" || !ok {
			return
		}
		ev.Meta[name] = append(ev.Meta[name], strings.TrimSpace(content))
	})

	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if seen[href] {
			return
		}

		if phone, ok := strings.CutPrefix(strings.ToLower(href), "tel:"); ok {
			if phone = strings.TrimSpace(phone); phone != "" {
				seen[href] = true
				ev.Phones = append(ev.Phones, phone)
			}

			return
		}
		if isSocialLink(href) {
			seen[href] = true
			ev.SocialLinks = append(ev.SocialLinks, href)
		}
	})

	return ev
}

func isSocialLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, social := range socialHosts {
		if host == social || strings.HasSuffix(host, "."+social) {
			return true
		}
	}

	return false
}
