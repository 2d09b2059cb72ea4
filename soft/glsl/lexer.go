package glsl

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
}

// punctuators ordered so that longer operators match first.
var punctuators = []string{
	"+=", "-=", "*=", "/=", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "=", "+", "-", "*", "/",
	"<", ">", "!", "?", ":",
}

func lex(src string) ([]token, *Error) {
	var tokens []token
	line := 1
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, errorf(line, "'' : EOF in comment")
			}
			line += strings.Count(src[i:i+2+end], "\n")
			i += end + 4
		case c == '_' || unicode.IsLetter(rune(c)):
			j := i
			for j < len(src) && (src[j] == '_' || unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[i:j], line: line})
			i = j
		case unicode.IsDigit(rune(c)) || (c == '.' && i+1 < len(src) && unicode.IsDigit(rune(src[i+1]))):
			j, kind := lexNumber(src, i)
			tokens = append(tokens, token{kind: kind, text: src[i:j], line: line})
			i = j
		default:
			matched := false
			for _, p := range punctuators {
				if strings.HasPrefix(src[i:], p) {
					tokens = append(tokens, token{kind: tokPunct, text: p, line: line})
					i += len(p)
					matched = true
					break
				}
			}
			if !matched {
				return nil, errorf(line, "'%c' : invalid character", c)
			}
		}
	}
	tokens = append(tokens, token{kind: tokEOF, line: line})
	return tokens, nil
}

func lexNumber(src string, i int) (int, tokenKind) {
	kind := tokInt
	j := i
	for j < len(src) && unicode.IsDigit(rune(src[j])) {
		j++
	}
	if j < len(src) && src[j] == '.' {
		kind = tokFloat
		j++
		for j < len(src) && unicode.IsDigit(rune(src[j])) {
			j++
		}
	}
	if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
		k := j + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		if k < len(src) && unicode.IsDigit(rune(src[k])) {
			kind = tokFloat
			j = k
			for j < len(src) && unicode.IsDigit(rune(src[j])) {
				j++
			}
		}
	}
	return j, kind
}
