package media

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"jamesfarrell.me/video-to-content/internal/artifact"
	"jamesfarrell.me/video-to-content/internal/errs"
)

// YTDLP shells out to yt-dlp for sites or formats the Go client cannot handle.
type YTDLP struct {
	// Binary defaults to "yt-dlp" on PATH.
	Binary string
}

func (d YTDLP) Download(ctx context.Context, watchURL, dest string) error {
	bin := d.Binary
	if bin == "" {
		bin = "yt-dlp"
	}
	tmp := artifact.TempPath(dest)

	cmd := exec.CommandContext(ctx, bin,
		"--no-playlist",
		"--format", "bestaudio[ext=m4a]/bestaudio",
		"--force-overwrites",
		"-o", tmp,
		watchURL)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		artifact.Discard(tmp)
		msg := "yt-dlp failed"
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return errs.E(errs.CodeIO, "media.ytdlp", msg, err)
	}
	if err := artifact.Commit(tmp, dest); err != nil {
		return errs.E(errs.CodeIO, "media.ytdlp", "", err)
	}
	return nil
}
