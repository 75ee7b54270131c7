package router

import (
	"fmt"
	"regexp"
	"strings"
)

// paramChars is the character class a :name placeholder captures.
const paramChars = `[A-Za-z0-9_-]+`

// Pattern is a compiled route or middleware path pattern.
//
// Leading and trailing slashes are normalized away, ":name" captures one
// segment of [A-Za-z0-9_-] characters, "*" matches anything and the rest is
// literal. A single trailing slash on the request path is tolerated.
type Pattern struct {
	raw   string
	re    *regexp.Regexp
	names []string
}

// Compile normalizes and compiles pattern.
func Compile(pattern string) (*Pattern, error) {
	normalized := "/" + strings.Trim(pattern, "/")

	var (
		sb    strings.Builder
		names []string
		seen  = make(map[string]bool)
	)
	sb.WriteString("^")

	for i := 0; i < len(normalized); {
		switch ch := normalized[i]; {
		case ch == '*':
			sb.WriteString(".*")
			i++
		case ch == ':':
			j := i + 1
			for j < len(normalized) && isParamChar(normalized[j]) {
				j++
			}
			name := normalized[i+1 : j]
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, pattern)
			}
			seen[name] = true
			names = append(names, name)
			sb.WriteString("(" + paramChars + ")")
			i = j
		default:
			j := i
			for j < len(normalized) && normalized[j] != '*' && normalized[j] != ':' {
				j++
			}
			sb.WriteString(regexp.QuoteMeta(normalized[i:j]))
			i = j
		}
	}

	if normalized != "/" {
		sb.WriteString("/?")
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegexp, err)
	}

	return &Pattern{raw: normalized, re: re, names: names}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether path matches and returns the captured parameters.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	if len(p.names) == 0 {
		return nil, true
	}
	params := make(map[string]string, len(p.names))
	for i, name := range p.names {
		params[name] = m[i+1]
	}
	return params, true
}

// MatchString reports whether path matches.
func (p *Pattern) MatchString(path string) bool {
	return p.re.MatchString(path)
}

// Params returns parameter names in declaration order.
func (p *Pattern) Params() []string {
	return p.names
}

// String returns the normalized pattern.
func (p *Pattern) String() string {
	return p.raw
}

func isParamChar(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
