package scoring

import (
	"database/sql/driver"
	"fmt"
)

// Axis is one of the four bipolar dimensions a question can move.
type Axis int

const (
	AxisEI Axis = iota
	AxisSN
	AxisTF
	AxisJP

	axisCount
)

// Axes lists every axis in type-code order.
var Axes = [axisCount]Axis{AxisEI, AxisSN, AxisTF, AxisJP}

var axisInfo = [axisCount]struct {
	tag       string
	low, high byte
}{
	AxisEI: {tag: "e_or_i", low: 'E', high: 'I'},
	AxisSN: {tag: "s_or_n", low: 'S', high: 'N'},
	AxisTF: {tag: "t_or_f", low: 'T', high: 'F'},
	AxisJP: {tag: "j_or_p", low: 'J', high: 'P'},
}

// UnknownAxisError reports an axis tag outside the closed set. It means the
// question catalogue is corrupt and is never recovered from silently.
type UnknownAxisError struct {
	Tag string
}

func (e *UnknownAxisError) Error() string {
	return fmt.Sprintf("unknown mbti axis tag %q", e.Tag)
}

// ParseAxis maps a stored tag such as "e_or_i" to its Axis.
func ParseAxis(tag string) (Axis, error) {
	for _, a := range Axes {
		if axisInfo[a].tag == tag {
			return a, nil
		}
	}
	return 0, &UnknownAxisError{Tag: tag}
}

// IsValidTag reports whether tag names one of the four axes.
func IsValidTag(tag string) bool {
	_, err := ParseAxis(tag)
	return err == nil
}

func (a Axis) valid() bool {
	return a >= 0 && a < axisCount
}

// Tag returns the storage tag of the axis.
func (a Axis) Tag() string {
	if !a.valid() {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisInfo[a].tag
}

func (a Axis) String() string {
	return a.Tag()
}

// Letter picks the axis letter for a summed score. Negative sums select the
// low letter; zero ties go to the high letter.
func (a Axis) Letter(sum int64) byte {
	info := axisInfo[a]
	if sum < 0 {
		return info.low
	}
	return info.high
}

func (a Axis) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
	return []byte(a.Tag()), nil
}

func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores the axis as its tag.
func (a Axis) Value() (driver.Value, error) {
	if !a.valid() {
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
	return a.Tag(), nil
}

// Scan reads a stored tag. Unknown tags surface as *UnknownAxisError.
func (a *Axis) Scan(src any) error {
	var tag string
	switch v := src.(type) {
	case string:
		tag = v
	case []byte:
		tag = string(v)
	case nil:
		return &UnknownAxisError{Tag: ""}
	default:
		return fmt.Errorf("cannot scan %T into Axis", src)
	}
	parsed, err := ParseAxis(tag)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
