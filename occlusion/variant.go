package occlusion

import (
	"errors"
	"fmt"
	"strings"

	"ssao-engine/kernel"
)

// Version selects the occlusion scoring formula.
type Version int

const (
	// V1 is a binary depth test with a bias and a range check against the
	// shaded point.
	V1 Version = iota
	// V2 is V1 with a smooth, scaled and powered response.
	V2
	// V3 scores by the sample's own depth difference with full and no
	// occlusion thresholds and a decay curve between them.
	V3
)

var (
	ErrUnknownVersion = errors.New("occlusion: unknown formula version")
	ErrUnknownVariant = errors.New("occlusion: no specialization for variant")
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case V3:
		return "v3"
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

func (v Version) Valid() bool {
	return v >= V1 && v <= V3
}

// ParseVersion maps "v1", "v2" or "v3" (case insensitive) to a Version.
func ParseVersion(name string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "v1", "1":
		return V1, nil
	case "v2", "2":
		return V2, nil
	case "v3", "3":
		return V3, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownVersion, name)
}

func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, int(v))
	}
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Variant is the resolved shader permutation for one draw.
type Variant struct {
	Method  kernel.Method
	Version Version
}

func (v Variant) Valid() bool {
	return v.Method.Valid() && v.Version.Valid()
}

func (v Variant) String() string {
	return v.Method.String() + "/" + v.Version.String()
}
