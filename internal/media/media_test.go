package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"accent-check-go/internal/logger"
)

// fakeRunner records invocations and writes the next canned payload to the
// path that follows --output (curl) or the last argument (ffmpeg). The next
// entry of stdout, if any, is returned as the command's output.
type fakeRunner struct {
	calls    [][]string
	payloads [][]byte
	stdout   []string
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{binary}, args...))
	if f.err != nil {
		return nil, f.err
	}
	dest := args[len(args)-1]
	for i, a := range args {
		if a == "--output" && i+1 < len(args) {
			dest = args[i+1]
		}
	}
	var payload []byte
	if len(f.payloads) > 0 {
		payload, f.payloads = f.payloads[0], f.payloads[1:]
	}
	var out []byte
	if len(f.stdout) > 0 {
		out, f.stdout = []byte(f.stdout[0]), f.stdout[1:]
	}
	return out, os.WriteFile(dest, payload, 0o644)
}

var fakeMP4 = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

func newTestFetcher(r *fakeRunner, opts ...FetcherOption) *Fetcher {
	opts = append([]FetcherOption{WithFetchRunner(r), WithFetchLogger(logger.Discard())}, opts...)
	return NewFetcher("curl", opts...)
}

func TestFetchHTTPDirect(t *testing.T) {
	r := &fakeRunner{payloads: [][]byte{fakeMP4}}
	dest := filepath.Join(t.TempDir(), "video.mp4")
	f := newTestFetcher(r, WithMaxBytes(1024))
	if err := f.Fetch(context.Background(), "https://cdn.example.com/a.mp4", dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("expected one curl call, got %d", len(r.calls))
	}
	args := strings.Join(r.calls[0], " ")
	for _, want := range []string{"--fail", "--location", "--max-filesize 1024", "-- https://cdn.example.com/a.mp4"} {
		if !strings.Contains(args, want) {
			t.Errorf("curl args %q missing %q", args, want)
		}
	}
}

func TestFetchFollowsLandingPage(t *testing.T) {
	page := []byte(`<!DOCTYPE html><html><head>
<meta property="og:video" content="/media/clip.mp4">
</head><body>hi</body></html>`)
	r := &fakeRunner{payloads: [][]byte{page, fakeMP4}}
	dest := filepath.Join(t.TempDir(), "video.mp4")
	if err := newTestFetcher(r).Fetch(context.Background(), "https://example.com/watch?v=1", dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected two curl calls, got %d", len(r.calls))
	}
	last := r.calls[1][len(r.calls[1])-1]
	if last != "https://example.com/media/clip.mp4" {
		t.Fatalf("followed %q", last)
	}
	got, _ := os.ReadFile(dest)
	if !bytes.Equal(got, fakeMP4) {
		t.Fatal("dest should hold the media, not the page")
	}
}

func TestFetchResolvesAgainstRedirectTarget(t *testing.T) {
	page := []byte(`<!DOCTYPE html><html><body><video src="clip.mp4"></video></body></html>`)
	r := &fakeRunner{
		payloads: [][]byte{page, fakeMP4},
		stdout:   []string{"https://cdn.example/videos/index.html\n"},
	}
	dest := filepath.Join(t.TempDir(), "video.mp4")
	if err := newTestFetcher(r).Fetch(context.Background(), "http://short.example/x", dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected two curl calls, got %d", len(r.calls))
	}
	if !strings.Contains(strings.Join(r.calls[0], " "), "--write-out %{url_effective}") {
		t.Errorf("curl args %q do not report the effective url", r.calls[0])
	}
	last := r.calls[1][len(r.calls[1])-1]
	if last != "https://cdn.example/videos/clip.mp4" {
		t.Fatalf("followed %q, want link resolved against the redirect target", last)
	}
}

func TestFetchLandingPageWithoutMedia(t *testing.T) {
	page := []byte(`<html><body><p>nothing here</p></body></html>`)
	r := &fakeRunner{payloads: [][]byte{page}}
	dest := filepath.Join(t.TempDir(), "video.mp4")
	err := newTestFetcher(r).Fetch(context.Background(), "https://example.com/", dest)
	if !errors.Is(err, ErrNoMedia) {
		t.Fatalf("expected ErrNoMedia, got %v", err)
	}
}

func TestFetchRejectsScheme(t *testing.T) {
	f := newTestFetcher(&fakeRunner{})
	for _, u := range []string{"file:///etc/passwd", "ftp://x/y", "s3://bucket/key"} {
		if err := f.Fetch(context.Background(), u, filepath.Join(t.TempDir(), "v")); !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("Fetch(%q) = %v, want ErrUnsupportedScheme", u, err)
		}
	}
}

func TestFetchPropagatesRunnerError(t *testing.T) {
	r := &fakeRunner{err: context.DeadlineExceeded}
	err := newTestFetcher(r).Fetch(context.Background(), "http://example.com/a.mp4", filepath.Join(t.TempDir(), "v"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline, got %v", err)
	}
}

type fakeS3 struct {
	body []byte
	err  error
	in   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestFetchS3(t *testing.T) {
	client := &fakeS3{body: fakeMP4}
	dest := filepath.Join(t.TempDir(), "video.mp4")
	f := newTestFetcher(&fakeRunner{}, WithS3(client))
	if err := f.Fetch(context.Background(), "s3://voices/takes/a.mp4", dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if *client.in.Bucket != "voices" || *client.in.Key != "takes/a.mp4" {
		t.Fatalf("bucket/key = %s/%s", *client.in.Bucket, *client.in.Key)
	}
	got, _ := os.ReadFile(dest)
	if !bytes.Equal(got, fakeMP4) {
		t.Fatal("object body not written")
	}
}

func TestFetchS3NotFound(t *testing.T) {
	client := &fakeS3{err: &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"}}
	f := newTestFetcher(&fakeRunner{}, WithS3(client))
	err := f.Fetch(context.Background(), "s3://voices/missing.mp4", filepath.Join(t.TempDir(), "v"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestFetchS3TooLarge(t *testing.T) {
	client := &fakeS3{body: bytes.Repeat([]byte{1}, 64)}
	f := newTestFetcher(&fakeRunner{}, WithS3(client), WithMaxBytes(16))
	if err := f.Fetch(context.Background(), "s3://voices/big.mp4", filepath.Join(t.TempDir(), "v")); err == nil {
		t.Fatal("expected size error")
	}
}

func TestNormalizeArgs(t *testing.T) {
	wav := append(make([]byte, wavHeaderBytes), 1, 2, 3, 4)
	r := &fakeRunner{payloads: [][]byte{wav}}
	dir := t.TempDir()
	dest := filepath.Join(dir, "audio.wav")
	if err := NewNormalizer("ffmpeg", r).Normalize(context.Background(), filepath.Join(dir, "video.mp4"), dest); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	args := strings.Join(r.calls[0], " ")
	for _, want := range []string{"-ac 1", "-ar 16000", "-c:a pcm_s16le", "-vn"} {
		if !strings.Contains(args, want) {
			t.Errorf("ffmpeg args %q missing %q", args, want)
		}
	}
}

func TestNormalizeRejectsEmptyOutput(t *testing.T) {
	r := &fakeRunner{payloads: [][]byte{make([]byte, wavHeaderBytes)}}
	dir := t.TempDir()
	if err := NewNormalizer("ffmpeg", r).Normalize(context.Background(), "in.mp4", filepath.Join(dir, "audio.wav")); err == nil {
		t.Fatal("expected error for header-only wav")
	}
}
