package media

import (
	"context"
	"fmt"
	"os"

	"accent-check-go/internal/subprocess"
)

// Target format of normalization.
const (
	SampleRate = 16000
	Channels   = 1
	Codec      = "pcm_s16le"

	wavHeaderBytes = 44
)

// Normalizer converts any media file to mono 16 kHz PCM WAV with ffmpeg.
type Normalizer struct {
	ffmpeg string
	runner subprocess.Runner
}

// NewNormalizer builds a Normalizer. A nil runner uses the host.
func NewNormalizer(ffmpegBinary string, runner subprocess.Runner) *Normalizer {
	if runner == nil {
		runner = subprocess.Exec{}
	}
	return &Normalizer{ffmpeg: ffmpegBinary, runner: runner}
}

// Normalize transcodes src to dest. The ffmpeg process is killed when ctx ends.
func (n *Normalizer) Normalize(ctx context.Context, src, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-sn",
		"-dn",
		"-ac", fmt.Sprint(Channels),
		"-ar", fmt.Sprint(SampleRate),
		"-c:a", Codec,
		dest,
	}
	if _, err := n.runner.Run(ctx, n.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg normalize: %w", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("ffmpeg normalize: %w", err)
	}
	if info.Size() <= wavHeaderBytes {
		return fmt.Errorf("ffmpeg normalize: %s has no audio samples", dest)
	}
	return nil
}
