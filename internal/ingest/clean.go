package ingest

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// e.g. "89. " at the start of a question body
	questionNumberRe = regexp.MustCompile(`^\d+\.\s*`)
	// e.g. "（12, 3則）" trailing source metadata
	trailingMetadataRe = regexp.MustCompile(`\s*（\d+\s*,\s*\d+則[^）]*）\s*$`)
)

// StripQuestionNumber removes a leading "N." numbering prefix.
func StripQuestionNumber(s string) string {
	return questionNumberRe.ReplaceAllString(s, "")
}

// StripMetadata removes a trailing "（n, m則…）" annotation.
func StripMetadata(s string) string {
	return strings.TrimSpace(trailingMetadataRe.ReplaceAllString(s, ""))
}

// RemoveSpaces deletes every whitespace rune. Useful for CJK text where
// pasted sources insert spurious spaces.
func RemoveSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Clean applies the import cleanup rules to a draft in place.
func (d *Draft) Clean(opts Options) {
	d.Content = StripMetadata(StripQuestionNumber(strings.TrimSpace(d.Content)))
	for i, opt := range d.Options {
		d.Options[i] = StripMetadata(strings.TrimSpace(opt))
	}
	if opts.StripSpaces {
		d.Content = RemoveSpaces(d.Content)
		for i, opt := range d.Options {
			d.Options[i] = RemoveSpaces(opt)
		}
	}
}
