package config

import (
	"fmt"
	"strings"
)

// Event is the point in the host pipeline at which the feature's passes run.
type Event int

const (
	BeforeRenderingOpaques Event = iota
	AfterRenderingOpaques
	BeforeRenderingPostProcessing
	AfterRenderingPostProcessing
)

var eventNames = map[Event]string{
	BeforeRenderingOpaques:        "before-opaques",
	AfterRenderingOpaques:         "after-opaques",
	BeforeRenderingPostProcessing: "before-post-process",
	AfterRenderingPostProcessing:  "after-post-process",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

func (e Event) Valid() bool {
	_, ok := eventNames[e]
	return ok
}

func ParseEvent(name string) (Event, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for e, n := range eventNames {
		if n == name {
			return e, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrInvalidEvent, name)
}

func (e Event) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEvent, int(e))
	}
	return []byte(e.String()), nil
}

func (e *Event) UnmarshalText(text []byte) error {
	parsed, err := ParseEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
