// Package job derives the artifact layout for a single video.
package job

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"jamesfarrell.me/video-to-content/internal/errs"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrMissingVideoID is returned when no identifier was supplied.
var ErrMissingVideoID = errs.New(errs.CodeMissingArgument, "missing video identifier argument")

// Job is immutable once built.
type Job struct {
	VideoID   string
	KeyPoint  string
	VideoPath string
	AudioPath string
	JSONPath  string
}

// New builds the Job for ref (a bare identifier or a watch/short URL) with artifacts
// under dir.
func New(dir, ref, keyPoint string) (Job, error) {
	id := ExtractVideoID(ref)
	if id == "" {
		return Job{}, ErrMissingVideoID
	}
	if !validID.MatchString(id) {
		return Job{}, errs.New(errs.CodeMissingArgument, "invalid video identifier "+ref)
	}
	return Job{
		VideoID:   id,
		KeyPoint:  strings.TrimSpace(keyPoint),
		VideoPath: filepath.Join(dir, id+".mp4"),
		AudioPath: filepath.Join(dir, id+".mp3"),
		JSONPath:  filepath.Join(dir, id+".json"),
	}, nil
}

// WatchURL is the canonical page the downloaders fetch from.
func (j Job) WatchURL() string {
	return watchURLPrefix + j.VideoID
}

// ExtractVideoID returns the identifier from a watch URL, a youtu.be link, or the
// input itself when it is not a URL.
func ExtractVideoID(ref string) string {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, "/") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if strings.HasSuffix(u.Host, "youtu.be") || strings.Contains(u.Path, "/shorts/") || strings.Contains(u.Path, "/embed/") {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		return parts[len(parts)-1]
	}
	return ""
}
