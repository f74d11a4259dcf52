package grading

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mind-engage/courseplayer/internal/content"
)

var ErrNotCapstone = errors.New("lesson is not a capstone")

// DefaultLinkPatterns accepts Google Drive/Docs, GitHub and Dropbox share
// links.
func DefaultLinkPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^https://(drive|docs)\.google\.com/`),
		regexp.MustCompile(`^https://(www\.)?github\.com/[^/\s]+`),
		regexp.MustCompile(`^https://(www\.)?dropbox\.com/`),
	}
}

// CompileLinkPatterns compiles a configured allow-list.
func CompileLinkPatterns(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		re, err := regexp.Compile(e)
		if err != nil {
			return nil, fmt.Errorf("compile link pattern %q: %w", e, err)
		}
		out = append(out, re)
	}
	return out, nil
}

type CapstoneSubmission struct {
	Checked []bool `json:"checked"`
	Link    string `json:"link"`
}

type CapstoneResult struct {
	Complete bool `json:"complete"`
	Checked  int  `json:"checked"`
	Total    int  `json:"total"`
	LinkOK   bool `json:"linkOk"`
}

// Capstone checks the capstone contract: every checklist item ticked and an
// allow-listed submission link. There is no per-item score.
func (e *Evaluator) Capstone(l content.Lesson, sub CapstoneSubmission) (CapstoneResult, error) {
	if l.Kind != content.KindCapstone || l.Capstone == nil {
		return CapstoneResult{}, ErrNotCapstone
	}
	res := CapstoneResult{Total: len(l.Capstone.Checklist)}
	for i := 0; i < res.Total && i < len(sub.Checked); i++ {
		if sub.Checked[i] {
			res.Checked++
		}
	}
	res.LinkOK = e.linkAllowed(sub.Link)
	res.Complete = res.Checked == res.Total && res.LinkOK
	return res, nil
}

func (e *Evaluator) linkAllowed(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" {
		return false
	}
	for _, re := range e.cfg.LinkPatterns {
		if re.MatchString(link) {
			return true
		}
	}
	return false
}
