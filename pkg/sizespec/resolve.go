package sizespec

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	// maxSide is the largest side an image encoder can be asked for.
	maxSide = decimal.NewFromInt(math.MaxInt32)
)

type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// side is a resolved width or height. A side left empty in the expression
// has set == false, which is not the same as a zero value.
type side struct {
	value decimal.Decimal
	set   bool
}

// ResolveSide turns one side of an expression into a pixel count measured
// against the source dimension on the same axis. ok is false when part is
// empty.
func ResolveSide(part string, source int) (value decimal.Decimal, ok bool, err error) {
	s, err := resolveSide(part, source)
	return s.value, s.set, err
}

func resolveSide(part string, source int) (side, error) {
	if part == "" {
		return side{}, nil
	}

	if prefix, ok := PercentPrefix(part); ok {
		ratio, err := Ratio(prefix)
		if err != nil {
			return side{}, err
		}
		v, err := scale(decimal.NewFromInt(int64(source)), ratio, hundred)
		if err != nil {
			return side{}, err
		}
		return side{value: v, set: true}, nil
	}

	m, err := Magnitude(part)
	if err != nil {
		return side{}, err
	}
	return side{value: RoundHalfUp(m), set: true}, nil
}

type box struct {
	width  decimal.Decimal
	height decimal.Decimal
}

func sourceBox(src Dimensions) box {
	return box{width: decimal.NewFromInt(int64(src.Width)), height: decimal.NewFromInt(int64(src.Height))}
}

func fromWidth(w decimal.Decimal, src box) (box, error) {
	h, err := scale(src.height, w, src.width)
	if err != nil {
		return box{}, fmt.Errorf("derive height from width %s: %w", w, err)
	}
	return box{width: w, height: h}, nil
}

func fromHeight(h decimal.Decimal, src box) (box, error) {
	w, err := scale(src.width, h, src.height)
	if err != nil {
		return box{}, fmt.Errorf("derive width from height %s: %w", h, err)
	}
	return box{width: w, height: h}, nil
}

// DeriveFromWidth keeps the source aspect ratio for the given width.
func DeriveFromWidth(width int, src Dimensions) (Dimensions, error) {
	b, err := fromWidth(decimal.NewFromInt(int64(width)), sourceBox(src))
	if err != nil {
		return Dimensions{}, err
	}
	if b.oversized() {
		return Dimensions{}, fmt.Errorf("%w: width %d on %s", ErrTargetTooLarge, width, src)
	}
	return b.dimensions(), nil
}

// DeriveFromHeight keeps the source aspect ratio for the given height.
func DeriveFromHeight(height int, src Dimensions) (Dimensions, error) {
	b, err := fromHeight(decimal.NewFromInt(int64(height)), sourceBox(src))
	if err != nil {
		return Dimensions{}, err
	}
	if b.oversized() {
		return Dimensions{}, fmt.Errorf("%w: height %d on %s", ErrTargetTooLarge, height, src)
	}
	return b.dimensions(), nil
}

func (b box) dimensions() Dimensions {
	return Dimensions{Width: int(b.width.IntPart()), Height: int(b.height.IntPart())}
}

func (b box) oversized() bool {
	return b.width.GreaterThan(maxSide) || b.height.GreaterThan(maxSide)
}

// validate rejects a box that cannot be turned into pixel dimensions.
func (b box) validate(raw string, src Dimensions) error {
	if b.width.LessThan(one) || b.height.LessThan(one) {
		return fmt.Errorf("%w: %q on %s", ErrEmptyTarget, raw, src)
	}
	if b.oversized() {
		return fmt.Errorf("%w: %q on %s", ErrTargetTooLarge, raw, src)
	}
	return nil
}

// fitWithin scales src to fit inside w x h. The longer source side drives the
// first attempt; if the other side overflows, the other side drives instead.
func fitWithin(w, h decimal.Decimal, src box) (box, error) {
	if src.width.GreaterThanOrEqual(src.height) {
		b, err := fromWidth(w, src)
		if err != nil {
			return box{}, err
		}
		if b.height.GreaterThan(h) {
			return fromHeight(h, src)
		}
		return b, nil
	}

	b, err := fromHeight(h, src)
	if err != nil {
		return box{}, err
	}
	if b.width.GreaterThan(w) {
		return fromWidth(w, src)
	}
	return b, nil
}

func (e Expression) sides(src Dimensions) (side, side, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return side{}, side{}, fmt.Errorf("%w: %s", ErrDegenerateSource, src)
	}
	w, err := resolveSide(e.WidthPart, src.Width)
	if err != nil {
		return side{}, side{}, err
	}
	h, err := resolveSide(e.HeightPart, src.Height)
	if err != nil {
		return side{}, side{}, err
	}
	return w, h, nil
}

// Fit returns the contain geometry for both sides of the expression whatever
// its policy suffix. Both sides must be present.
func (e Expression) Fit(src Dimensions) (Dimensions, error) {
	w, h, err := e.sides(src)
	if err != nil {
		return Dimensions{}, err
	}
	if !w.set || !h.set {
		return Dimensions{}, fmt.Errorf("%w: %q needs both width and height", ErrMalformedExpression, e.Raw)
	}
	b, err := fitWithin(w.value, h.value, sourceBox(src))
	if err != nil {
		return Dimensions{}, err
	}
	if err := b.validate(e.Raw, src); err != nil {
		return Dimensions{}, err
	}
	return b.dimensions(), nil
}

// Box returns the requested bounding box, deriving a missing side from the
// present one. Thumbnails are fitted into this box.
func (e Expression) Box(src Dimensions) (Dimensions, error) {
	w, h, err := e.sides(src)
	if err != nil {
		return Dimensions{}, err
	}
	sb := sourceBox(src)

	var b box
	switch {
	case !e.HasSeparator || !h.set:
		b, err = fromWidth(w.value, sb)
	case !w.set:
		b, err = fromHeight(h.value, sb)
	default:
		b = box{width: w.value, height: h.value}
	}
	if err != nil {
		return Dimensions{}, err
	}
	if err := b.validate(e.Raw, src); err != nil {
		return Dimensions{}, err
	}
	return b.dimensions(), nil
}

// Resolve computes the target size for src. ok is false when a shrink-only or
// enlarge-only guard is not met and the image should be left alone.
func (e Expression) Resolve(src Dimensions) (size Dimensions, ok bool, err error) {
	w, h, err := e.sides(src)
	if err != nil {
		return Dimensions{}, false, err
	}
	sb := sourceBox(src)

	var b box
	switch {
	case !e.HasSeparator, !h.set:
		b, err = fromWidth(w.value, sb)
	case !w.set:
		b, err = fromHeight(h.value, sb)
	default:
		switch e.Policy {
		case PolicyIgnoreAspect:
			b = box{width: w.value, height: h.value}
		case PolicyShrinkOnly:
			if !(sb.width.GreaterThan(w.value) && sb.height.GreaterThan(h.value)) {
				return Dimensions{}, false, nil
			}
			b, err = fitWithin(w.value, h.value, sb)
		case PolicyEnlargeOnly:
			if !(sb.width.LessThan(w.value) && sb.height.LessThan(h.value)) {
				return Dimensions{}, false, nil
			}
			b, err = fitWithin(w.value, h.value, sb)
		case PolicyFitShorterSide:
			if src.Width <= src.Height {
				b, err = fromWidth(w.value, sb)
			} else {
				b, err = fromHeight(h.value, sb)
			}
		default:
			b, err = fitWithin(w.value, h.value, sb)
		}
	}
	if err != nil {
		return Dimensions{}, false, err
	}
	if err := b.validate(e.Raw, src); err != nil {
		return Dimensions{}, false, err
	}
	return b.dimensions(), true, nil
}
