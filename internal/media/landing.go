package media

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxPageBytes bounds how much of a downloaded HTML page is parsed.
const maxPageBytes = 4 << 20

// mediaSelectors are tried in order; the first non-empty value wins.
var mediaSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:video:secure_url"]`, "content"},
	{`meta[property="og:video:url"]`, "content"},
	{`meta[property="og:video"]`, "content"},
	{`meta[name="twitter:player:stream"]`, "content"},
	{`video[src]`, "src"},
	{`video source[src]`, "src"},
	{`audio[src]`, "src"},
	{`audio source[src]`, "src"},
}

// resolveLandingPage inspects a downloaded file. When it is an HTML page it
// returns the absolute URL of the embedded media, or ErrNoMedia. For any other
// content it returns "".
func resolveLandingPage(path string, base *url.URL) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open download: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 512)
	head, _ := br.Peek(512)
	if !strings.HasPrefix(http.DetectContentType(head), "text/html") {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(br, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parse landing page: %w", err)
	}
	for _, s := range mediaSelectors {
		val, ok := doc.Find(s.selector).First().Attr(s.attr)
		val = strings.TrimSpace(val)
		if !ok || val == "" {
			continue
		}
		ref, err := url.Parse(val)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		return abs.String(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoMedia, base.Redacted())
}
