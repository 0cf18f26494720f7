// Package media acquires source media and normalizes it to the audio format
// the classifier expects. Both steps shell out to external tools (curl,
// ffmpeg) or the S3 API; nothing is decoded in-process.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"accent-check-go/internal/logger"
	"accent-check-go/internal/subprocess"
)

var (
	// ErrUnsupportedScheme is returned for sources other than http(s) and s3.
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
	// ErrNoMedia is returned when a landing page embeds no video.
	ErrNoMedia = errors.New("page contains no media link")
)

// Fetcher downloads a media URL into a local file.
type Fetcher struct {
	curl     string
	runner   subprocess.Runner
	s3       S3Getter
	maxBytes int64
	log      *logger.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchRunner injects the command runner (primarily for tests).
func WithFetchRunner(r subprocess.Runner) FetcherOption {
	return func(f *Fetcher) {
		if r != nil {
			f.runner = r
		}
	}
}

// WithS3 enables s3:// sources.
func WithS3(client S3Getter) FetcherOption {
	return func(f *Fetcher) { f.s3 = client }
}

// WithMaxBytes caps the download size. Zero disables the cap.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) { f.maxBytes = n }
}

// WithFetchLogger sets the logger.
func WithFetchLogger(l *logger.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFetcher builds a Fetcher that downloads http(s) sources with curl.
func NewFetcher(curlBinary string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		curl:   curlBinary,
		runner: subprocess.Exec{},
		log:    logger.New(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch writes the media behind rawURL to dest. The download is bound to ctx;
// a deadline kills the transfer and the error wraps ctx.Err().
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("parse source url: %w", err)
	}
	log := f.log.WithField("component", "media.fetch").WithField("scheme", u.Scheme)

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		final, err := f.curlGet(ctx, u.String(), dest)
		if err != nil {
			return err
		}
		link, err := resolveLandingPage(dest, final)
		if err != nil {
			return err
		}
		if link == "" {
			return nil
		}
		log.WithField("media_url", link).Info("source is a web page, following embedded media link")
		_, err = f.curlGet(ctx, link, dest)
		return err
	case "s3":
		if f.s3 == nil {
			return fmt.Errorf("%w: s3 sources are not configured", ErrUnsupportedScheme)
		}
		return f.s3Get(ctx, u, dest)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// curlGet downloads src to dest and returns the URL curl ended up at after
// redirects. Relative links in a landing page resolve against that URL.
func (f *Fetcher) curlGet(ctx context.Context, src, dest string) (*url.URL, error) {
	args := []string{
		"--silent", "--show-error",
		"--location", "--max-redirs", "10",
		"--fail",
		"--output", dest,
		"--write-out", "%{url_effective}",
	}
	if f.maxBytes > 0 {
		args = append(args, "--max-filesize", strconv.FormatInt(f.maxBytes, 10))
	}
	args = append(args, "--", src)
	out, err := f.runner.Run(ctx, f.curl, args...)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", src, err)
	}
	return effectiveURL(out, src), nil
}

// effectiveURL parses curl's %{url_effective} output, falling back to the
// requested URL when curl printed nothing usable.
func effectiveURL(out []byte, src string) *url.URL {
	if final := strings.TrimSpace(string(out)); final != "" {
		if u, err := url.Parse(final); err == nil && u.IsAbs() {
			return u
		}
	}
	u, _ := url.Parse(src)
	return u
}
