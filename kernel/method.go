package kernel

import (
	"fmt"
	"strings"
)

// Method selects how kernel samples are distributed around the shaded point.
type Method int

const (
	// Spherical spreads unit samples over the whole sphere. The estimator
	// reflects them about a per-pixel random vector to break up banding.
	Spherical Method = iota

	// Hemispherical keeps samples on the +Z side and scales them toward the
	// origin. The estimator orients them along the surface tangent frame.
	Hemispherical
)

func (m Method) String() string {
	switch m {
	case Spherical:
		return "spherical"
	case Hemispherical:
		return "hemispherical"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Valid reports whether m names a known distribution method.
func (m Method) Valid() bool {
	return m == Spherical || m == Hemispherical
}

// ParseMethod maps a method name to a Method.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spherical":
		return Spherical, nil
	case "hemispherical", "hemisphere":
		return Hemispherical, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
