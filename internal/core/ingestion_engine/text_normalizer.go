package ingestion_engine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// headingMaxRunes bounds the short all-caps lines kept as standalone paragraphs.
const headingMaxRunes = 50

var (
	lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n")

	reSpaceRun   = regexp.MustCompile(`[\t\v\p{Zs}]{2,}`)
	reNewlineRun = regexp.MustCompile(`\n{3,}`)

	// OCR confusions, applied until nothing changes since matches may share a neighbour.
	reDigitO      = regexp.MustCompile(`(\d)O(\d)`)
	reLowerOne    = regexp.MustCompile(`([a-z])1([a-z])`)
	reSentenceGap = regexp.MustCompile(`([.…])([A-Z])`)

	typography = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"–", "-", "—", "-",
		"•", "*",
		"…", "...",
		"\u00a0", " ",
	)
)

// Normalize cleans extracted text. Applying it to its own output changes nothing.
func Normalize(raw string) string {
	s := lineBreaks.Replace(raw)
	s = reSpaceRun.ReplaceAllString(s, " ")
	s = reNewlineRun.ReplaceAllString(s, "\n\n")
	s = repairOCRArtifacts(s)
	s = rebuildParagraphs(s)
	s = typography.Replace(s)
	return strings.TrimSpace(s)
}

// CountWords counts whitespace-separated tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

func repairOCRArtifacts(s string) string {
	for {
		next := reDigitO.ReplaceAllString(s, "${1}0${2}")
		next = reLowerOne.ReplaceAllString(next, "${1}l${2}")
		next = reSentenceGap.ReplaceAllString(next, "$1 $2")
		if next == s {
			return s
		}
		s = next
	}
}

// rebuildParagraphs joins wrapped lines back into paragraphs separated by one blank line.
func rebuildParagraphs(s string) string {
	var (
		paragraphs []string
		current    []string
	)
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case isHeading(line):
			flush()
			paragraphs = append(paragraphs, line)
		default:
			current = append(current, line)
			if strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!") || strings.HasSuffix(line, "?") {
				flush()
			}
		}
	}
	flush()
	return strings.Join(paragraphs, "\n\n")
}

// isHeading reports a short line with letters and no lowercase.
func isHeading(line string) bool {
	if utf8.RuneCountInString(line) >= headingMaxRunes {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
