// Package resolver maps a user-supplied interface name or pattern onto one
// interface currently reported by the counter source.
//
// Matching order is exact name, then wildcard pattern, then case-insensitive
// substring. Among several substring matches the shortest name wins, ties
// going to the provider's order.
package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

var (
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrInvalidPattern    = errors.New("invalid interface pattern")
)

// NotFoundError reports a failed resolution together with every interface
// that was available at the time.
type NotFoundError struct {
	Pattern   string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return "no network interfaces found"
	}
	if e.Pattern == "" {
		return fmt.Sprintf("no usable interface; available: %s", strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("no interface matches %q; available: %s", e.Pattern, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrInterfaceNotFound }

// Resolve picks one interface name from available. An empty pattern selects
// the interface with the highest combined rx+tx total.
func Resolve(pattern string, available []model.Interface) (string, error) {
	names := make([]string, len(available))
	for i, it := range available {
		names[i] = it.Name
	}
	if len(available) == 0 {
		return "", &NotFoundError{Pattern: pattern}
	}

	if pattern == "" {
		return Busiest(available), nil
	}

	for _, n := range names {
		if n == pattern {
			return n, nil
		}
	}

	if IsWildcard(pattern) {
		re, err := compileGlob(pattern)
		if err != nil {
			return "", fmt.Errorf("%w %q: %v; available: %s", ErrInvalidPattern, pattern, err, strings.Join(names, ", "))
		}
		for _, n := range names {
			if re.MatchString(n) {
				return n, nil
			}
		}
		return "", &NotFoundError{Pattern: pattern, Available: names}
	}

	needle := strings.ToLower(pattern)
	best := ""
	for _, n := range names {
		if !strings.Contains(strings.ToLower(n), needle) {
			continue
		}
		if best == "" || len(n) < len(best) {
			best = n
		}
	}
	if best == "" {
		return "", &NotFoundError{Pattern: pattern, Available: names}
	}
	return best, nil
}

// Busiest returns the interface with the largest rx+tx total, the first one on ties.
func Busiest(available []model.Interface) string {
	if len(available) == 0 {
		return ""
	}
	best := available[0]
	for _, it := range available[1:] {
		if it.Total() > best.Total() {
			best = it
		}
	}
	return best.Name
}

// IsWildcard reports whether pattern uses the glob meta-characters '*' or '?'.
// Brackets alone do not make a pattern a glob.
func IsWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}

// compileGlob turns a shell-style glob into an anchored, case-insensitive
// regexp. '*' matches any run, '?' one character, and inside a glob [...] /
// [!...] is a class.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '[':
			j := i + 1
			negate := j < len(rs) && (rs[j] == '!' || rs[j] == '^')
			if negate {
				j++
			}
			start := j
			// a ']' right after the opening bracket is literal
			if j < len(rs) && rs[j] == ']' {
				j++
			}
			for j < len(rs) && rs[j] != ']' {
				j++
			}
			if j >= len(rs) {
				return nil, fmt.Errorf("unterminated character class at offset %d", i)
			}
			b.WriteByte('[')
			if negate {
				b.WriteByte('^')
			}
			for _, c := range rs[start:j] {
				if c == '\\' || c == '[' || c == ']' {
					b.WriteByte('\\')
				}
				b.WriteRune(c)
			}
			b.WriteByte(']')
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.Compile(b.String())
}
