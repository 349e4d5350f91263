package model

import (
	"regexp"
	"strings"
	"sync"
)

// fnmatch matches name against a shell-style glob with `*`, `?` and `[...]`
// semantics. Unlike path.Match, `*` also crosses path separators, so a glob
// like `*/README.*` matches `/x/README.md`. Suppression globs are recorded
// against whatever filename the linter reported, which may be absolute.
func fnmatch(name, pattern string) bool {
	re, err := compileGlob(pattern)
	if err != nil {
		return false
	}

	return re.MatchString(name)
}

var globCache sync.Map // pattern -> *regexp.Regexp

func compileGlob(pattern string) (*regexp.Regexp, error) {
	if cached, ok := globCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(translateGlob(pattern))
	if err != nil {
		return nil, err
	}

	globCache.Store(pattern, re)

	return re, nil
}

// translateGlob converts a glob into an anchored regular expression.
func translateGlob(pattern string) string {
	var sb strings.Builder

	sb.WriteString(`(?s)\A`)

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)
		case '[':
			end := closingBracket(pattern, i)
			if end < 0 {
				// Unterminated class, treat '[' as a literal.
				sb.WriteString(`\[`)
				continue
			}

			sb.WriteString(characterClass(pattern[i+1 : end]))
			i = end
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	sb.WriteString(`\z`)

	return sb.String()
}

// closingBracket returns the index of the ']' terminating the character
// class opened at start, or -1. A ']' directly after the opening bracket
// (or after a leading negation) is part of the class.
func closingBracket(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}

	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	for i < len(pattern) {
		if pattern[i] == ']' {
			return i
		}

		i++
	}

	return -1
}

func characterClass(inner string) string {
	negated := false
	if strings.HasPrefix(inner, "!") || strings.HasPrefix(inner, "^") {
		negated = true
		inner = inner[1:]
	}

	// Escape regexp metacharacters that have no meaning inside a glob
	// class while keeping ranges like a-z intact.
	inner = strings.ReplaceAll(inner, `\`, `\\`)
	inner = strings.ReplaceAll(inner, `[`, `\[`)

	if negated {
		return "[^" + inner + "]"
	}

	return "[" + inner + "]"
}
