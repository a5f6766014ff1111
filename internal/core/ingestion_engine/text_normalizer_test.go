package ingestion_engine

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace runs", "too    many \t spaces", "too many spaces"},
		{"wrapped lines joined", "the quick brown\nfox jumps over\nthe lazy dog.", "the quick brown fox jumps over the lazy dog."},
		{"sentence ends paragraph", "First line.\nSecond line.", "First line.\n\nSecond line."},
		{"question and exclamation", "Ready?\nGo!\nnow", "Ready?\n\nGo!\n\nnow"},
		{"blank lines collapse", "one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"heading kept alone", "INTRODUCTION\nthis document covers\nthe basics.", "INTRODUCTION\n\nthis document covers the basics."},
		{"long caps line is not a heading", strings.Repeat("LOUD ", 12) + "\nquiet", strings.Repeat("LOUD ", 11) + "LOUD quiet"},
		{"digit letter O", "Invoice 1O5O7 total", "Invoice 10507 total"},
		{"lowercase one as l", "he1lo wor1d", "hello world"},
		{"missing space after period", "It ended.Then it began.", "It ended. Then it began."},
		{"typography", "“quoted” ‘single’ a–b c—d • item wait…", `"quoted" 'single' a-b c-d * item wait...`},
		{"ellipsis before capital", "wait…Then", "wait... Then"},
		{"nbsp", "a b   c", "a b c"},
		{"carriage returns", "line one\r\nline two.\rline three", "line one line two.\n\nline three"},
		{"trimmed", "   \n\n  padded text  \n\n ", "padded text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

var (
	reTooManyNewlines = regexp.MustCompile(`\n{3,}`)
	reTooManySpaces   = regexp.MustCompile(`[ \t\v\p{Zs}]{2,}`)
)

func TestNormalize_IdempotentAndBounded(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"A\n\n\n\nB",
		"  lots   of\t\t\tspace    here  ",
		"CHAPTER ONE\nIt was a dark\nand stormy night.\n\n\n\nTHE END",
		"1O2O3O4 and a1b1c1d",
		"Ok.Next.Again…Done",
		"“smart” quotes — dashes – bullets • ellipses …",
		"mixed\r\nline\rendings\fform feed",
		"U.S.A.Is here\n\n\n  \n\t\nnext",
		"trailing heading\nNOTES",
		" em  spaces here",
		"wait…\nmore text here",
		"...A",
		"x" + strings.Repeat("\n", 20) + "y",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
		assert.False(t, reTooManyNewlines.MatchString(once), "input %q -> %q", in, once)
		assert.False(t, reTooManySpaces.MatchString(once), "input %q -> %q", in, once)
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords(" \n\t "))
	assert.Equal(t, 3, CountWords("one two\n\nthree"))
}

func FuzzNormalize(f *testing.F) {
	for _, seed := range []string{"", "a1b 3O4", "HEAD\nbody text.\n\n\nMore…Next", "“x” — • \t\f\r\n"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		once := Normalize(in)
		if again := Normalize(once); again != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, again)
		}
	})
}
