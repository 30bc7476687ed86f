package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"jamesfarrell.me/video-to-content/internal/errs"
)

// Result is one parsed model reply.
type Result struct {
	Quote        string   `json:"quote"`
	Tweet        string   `json:"tweet"`
	LinkedIn     string   `json:"linkedin"`
	Score        int      `json:"score"`
	Improvements []string `json:"improvements"`

	// blank counts improvement entries dropped for being empty.
	blank int
}

// Accepted is the loop's stopping rule: a perfect score or nothing left to improve.
// Blank entries still count as a request to revise.
func (r Result) Accepted() bool {
	return r.Score >= MaxScore || (len(r.Improvements) == 0 && r.blank == 0)
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseResult decodes and validates a model reply.
func ParseResult(raw string) (Result, error) {
	const op = "generation.parse"

	var r Result
	dec := json.NewDecoder(strings.NewReader(stripFences(raw)))
	if err := dec.Decode(&r); err != nil {
		return Result{}, errs.E(errs.CodeMalformedUpstream, op, "decode reply", err)
	}
	if r.Score < MinScore || r.Score > MaxScore {
		return Result{}, errs.E(errs.CodeMalformedUpstream, op, fmt.Sprintf("score %d outside %d-%d", r.Score, MinScore, MaxScore), nil)
	}
	if strings.TrimSpace(r.Tweet) == "" || strings.TrimSpace(r.LinkedIn) == "" {
		return Result{}, errs.E(errs.CodeMalformedUpstream, op, "reply is missing tweet or linkedin", nil)
	}

	improvements := r.Improvements[:0]
	for _, s := range r.Improvements {
		if s = strings.TrimSpace(s); s != "" {
			improvements = append(improvements, s)
		} else {
			r.blank++
		}
	}
	r.Improvements = improvements
	return r, nil
}

// TweetLen and LinkedInLen count characters the way the length rules in the prompt do.
func (r Result) TweetLen() int    { return utf8.RuneCountInString(r.Tweet) }
func (r Result) LinkedInLen() int { return utf8.RuneCountInString(r.LinkedIn) }
