package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Coordinate is a parsed Maven coordinate without a version.
// Group is empty for bare artifact names such as "firebase-auth".
type Coordinate struct {
	Group    string
	Artifact string
}

// ParseCoordinate parses "group:artifact" or a bare "artifact".
func ParseCoordinate(s string) (Coordinate, error) {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return Coordinate{}, invalidCoordinate(s)
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return Coordinate{Artifact: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Coordinate{}, invalidCoordinate(s)
		}
		return Coordinate{Group: parts[0], Artifact: parts[1]}, nil
	default:
		return Coordinate{}, invalidCoordinate(s)
	}
}

// String returns the canonical textual form.
func (c Coordinate) String() string {
	if c.Group == "" {
		return c.Artifact
	}
	return c.Group + ":" + c.Artifact
}

func invalidCoordinate(s string) error {
	return zerr.With(zerr.Wrap(ErrInvalidCoordinate, "coordinate"), "coordinate", s)
}
