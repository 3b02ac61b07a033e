package asm

import (
	"regexp"
	"strings"
)

var labelRe = regexp.MustCompile(`^[a-z_][a-z0-9_.]*$`)

// tokenize splits one source line into its labels and the remaining words.
// A $(...) expression is kept whole as a single word.
func tokenize(line string) (labels, words []string, err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.ToLower(line)

	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '$' && i+1 < len(line) && line[i+1] == '(':
			end := matchParen(line, i+1)
			if end < 0 {
				return nil, nil, ErrExpression
			}
			cur.WriteString(line[i : end+1])
			i = end
		case c == ':':
			flush()
			if len(words) != 1 || !labelRe.MatchString(words[0]) {
				return nil, nil, ErrInvalidLabel
			}
			labels = append(labels, words[0])
			words = words[:0]
		case strings.IndexByte(", \t\r()", c) >= 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return labels, words, nil
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
