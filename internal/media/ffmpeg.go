package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"jamesfarrell.me/video-to-content/internal/artifact"
	"jamesfarrell.me/video-to-content/internal/errs"
)

// Extractor turns a downloaded container into a standalone audio file.
type Extractor interface {
	Extract(ctx context.Context, videoPath, audioPath string) error
}

// FFmpeg drops the video stream with -vn; the output codec follows the
// extension of audioPath.
type FFmpeg struct {
	// Binary defaults to "ffmpeg" on PATH.
	Binary string
	// Stdout receives the child's stdout. Defaults to os.Stdout.
	Stdout io.Writer
}

func (f FFmpeg) Extract(ctx context.Context, videoPath, audioPath string) error {
	bin := f.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	stdout := f.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	tmp := artifact.TempPath(audioPath)

	cmd := exec.CommandContext(ctx, bin, "-y", "-i", videoPath, "-vn", tmp)
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		artifact.Discard(tmp)
		return errs.E(errs.CodeIO, "media.ffmpeg", lastLine(stderr.String()), err)
	}
	if err := artifact.Commit(tmp, audioPath); err != nil {
		return errs.E(errs.CodeIO, "media.ffmpeg", "", err)
	}
	return nil
}

// lastLine keeps error messages readable; ffmpeg prints its banner to stderr.
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
