// Package sizespec parses size expressions such as "800", "600x400",
// "350x240!", "450x", "x400" or "50%x50%>" and resolves them against the
// dimensions of a source image.
package sizespec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedExpression = errors.New("malformed size expression")
	ErrDegenerateSource    = errors.New("source image has a zero dimension")
	ErrEmptyTarget         = errors.New("resolved size is smaller than one pixel")
	ErrTargetTooLarge      = errors.New("resolved size exceeds the largest supported image")
)

type Policy int

const (
	PolicyNone Policy = iota
	PolicyIgnoreAspect
	PolicyShrinkOnly
	PolicyEnlargeOnly
	PolicyFitShorterSide
)

func (p Policy) String() string {
	switch p {
	case PolicyIgnoreAspect:
		return "ignore-aspect"
	case PolicyShrinkOnly:
		return "shrink-only"
	case PolicyEnlargeOnly:
		return "enlarge-only"
	case PolicyFitShorterSide:
		return "fit-shorter-side"
	}
	return "none"
}

func policyFromSuffix(c byte) Policy {
	switch c {
	case '!':
		return PolicyIgnoreAspect
	case '>':
		return PolicyShrinkOnly
	case '<':
		return PolicyEnlargeOnly
	case '^':
		return PolicyFitShorterSide
	}
	return PolicyNone
}

// Expression is a parsed size expression. The zero value is not usable; build
// one with Parse.
type Expression struct {
	Raw string

	WidthPart  string
	HeightPart string

	// HasSeparator is false for single-value expressions like "800".
	HasSeparator bool
	Policy       Policy
}

// Parse splits raw on the first 'x' (case-insensitive) and records the
// trailing policy character. Every non-empty side must carry at least one
// digit, so a bad argument fails before any file is touched.
func Parse(raw string) (Expression, error) {
	s := strings.ToLower(raw)
	if s == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrMalformedExpression)
	}

	e := Expression{
		Raw:    raw,
		Policy: policyFromSuffix(s[len(s)-1]),
	}

	pos := strings.IndexByte(s, 'x')
	if pos == -1 {
		e.WidthPart = s
	} else {
		e.HasSeparator = true
		e.WidthPart = s[:pos]
		e.HeightPart = s[pos+1:]
	}

	if e.WidthPart == "" && e.HeightPart == "" {
		return Expression{}, fmt.Errorf("%w: %q has no width or height", ErrMalformedExpression, raw)
	}
	for _, part := range []string{e.WidthPart, e.HeightPart} {
		if part == "" {
			continue
		}
		if _, err := magnitudeOf(part); err != nil {
			return Expression{}, fmt.Errorf("%q: %w", raw, err)
		}
	}

	return e, nil
}

func (e Expression) String() string {
	return e.Raw
}

// FilterDigits keeps the decimal digits of s, plus '.' when allowPoint is set.
// Everything else the user may have pasted around the number is dropped.
func FilterDigits(s string, allowPoint bool) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (allowPoint && r == '.') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Magnitude parses the digits of s as an exact pixel count.
func Magnitude(s string) (decimal.Decimal, error) {
	return parseFiltered(s, FilterDigits(s, false))
}

// Ratio parses the digits and decimal point of s as an exact percentage.
func Ratio(s string) (decimal.Decimal, error) {
	return parseFiltered(s, FilterDigits(s, true))
}

func parseFiltered(orig, filtered string) (decimal.Decimal, error) {
	if strings.IndexFunc(filtered, func(r rune) bool { return r >= '0' && r <= '9' }) == -1 {
		return decimal.Zero, fmt.Errorf("%w: no digits in %q", ErrMalformedExpression, orig)
	}
	d, err := decimal.NewFromString(filtered)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrMalformedExpression, orig, err)
	}
	return d, nil
}

// PercentPrefix returns the part of s before its first '%'. Anything after
// that first marker is ignored.
func PercentPrefix(s string) (string, bool) {
	pos := strings.IndexByte(s, '%')
	if pos == -1 {
		return "", false
	}
	return s[:pos], true
}

// magnitudeOf validates a side without a source dimension.
func magnitudeOf(part string) (decimal.Decimal, error) {
	if prefix, ok := PercentPrefix(part); ok {
		return Ratio(prefix)
	}
	return Magnitude(part)
}
