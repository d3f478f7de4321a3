package models

import "fmt"

// Side identifies one outcome of a priced market.
type Side int

const (
	SideHome Side = iota
	SideAway
	SideDraw
	SideOver
	SideUnder
)

// String returns the lowercase wire name for the side.
func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	case SideDraw:
		return "draw"
	case SideOver:
		return "over"
	case SideUnder:
		return "under"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// MarshalJSON serializes the side as its wire name.
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ParseSide converts a wire name into a Side. Unknown names are rejected
// rather than coerced to a default.
func ParseSide(raw string) (Side, error) {
	switch raw {
	case "home":
		return SideHome, nil
	case "away":
		return SideAway, nil
	case "draw", "tie":
		return SideDraw, nil
	case "over":
		return SideOver, nil
	case "under":
		return SideUnder, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSide, raw)
	}
}

// Opposite returns the other side of a two-way market.
func (s Side) Opposite() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	case SideOver:
		return SideUnder
	case SideUnder:
		return SideOver
	default:
		return s
	}
}
