package ingest

import (
	"regexp"
	"strings"
)

// Options controls text cleanup during import.
type Options struct {
	// StripSpaces removes all whitespace from content and options.
	StripSpaces bool
}

var (
	// A block starts with the answer key and the question number: "A,C 12."
	blockStartRe = regexp.MustCompile(`^[A-Z,]+\s+\d+\.`)
	blockRe      = regexp.MustCompile(`^([A-Z,]+)\s+(\d+\.)\s*(.*)$`)
	metaLineRe   = regexp.MustCompile(`^（\d+\s*,\s*\d+則`)
	optionRe     = regexp.MustCompile(`\(([A-Z])\)([^()]+)`)
)

// ParseText parses pasted question blocks of the form
//
//	A,C 12. Which are prime? (A)2 (B)4 (C)5 (D)8
//
// A block may span several lines, of any length. Lines before the first
// block and metadata lines such as "（12, 3則）" are ignored.
func ParseText(text string, opts Options) []Draft {
	var (
		drafts []Draft
		block  []string
	)
	flush := func() {
		if len(block) == 0 {
			return
		}
		if d, ok := parseBlock(strings.Join(block, " ")); ok {
			d.Clean(opts)
			drafts = append(drafts, d)
		}
		block = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case blockStartRe.MatchString(line):
			flush()
			block = []string{line}
		case metaLineRe.MatchString(line):
			// source metadata, not part of any question
		case line != "" && len(block) > 0:
			block = append(block, line)
		}
	}
	flush()

	return drafts
}

func parseBlock(text string) (Draft, bool) {
	m := blockRe.FindStringSubmatch(text)
	if m == nil {
		return Draft{}, false
	}
	body := m[3]

	var correct []string
	for _, a := range strings.Split(m[1], ",") {
		if a = strings.TrimSpace(a); a != "" {
			correct = append(correct, a)
		}
	}

	d := Draft{Content: body, Options: []string{}, CorrectAnswers: correct}

	matches := optionRe.FindAllStringSubmatchIndex(body, -1)
	if len(matches) >= 2 {
		d.Content = strings.TrimSpace(body[:matches[0][0]])
		for _, loc := range matches {
			d.Options = append(d.Options, strings.TrimSpace(body[loc[4]:loc[5]]))
		}
	}
	return d, true
}
