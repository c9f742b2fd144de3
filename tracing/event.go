package tracing

import (
	"strconv"
	"strings"
)

// An Event is the trace record of one allocator operation.
type Event struct {
	ID        string   `json:"id"`
	Domain    string   `json:"domain"`
	Kind      string   `json:"kind"`
	Rejected  bool     `json:"rejected"`
	Requested int      `json:"requested"`
	Frames    []uint64 `json:"frames"`
	FreeAfter int      `json:"free_after"`
	Error     string   `json:"error,omitempty"`
}

// EventFilter selects the events a tracer keeps. A nil filter keeps all.
type EventFilter func(e Event) bool

// FormatFrames renders frame addresses as semicolon separated hex numbers.
func FormatFrames(addrs []uint64) string {
	var sb strings.Builder
	for i, a := range addrs {
		if i > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString("0x")
		sb.WriteString(strconv.FormatUint(a, 16))
	}

	return sb.String()
}

// ParseFrames reverses FormatFrames.
func ParseFrames(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ";")
	addrs := make([]uint64, 0, len(parts))

	for _, p := range parts {
		a, err := strconv.ParseUint(strings.TrimPrefix(p, "0x"), 16, 64)
		if err != nil {
			return nil, err
		}

		addrs = append(addrs, a)
	}

	return addrs, nil
}
