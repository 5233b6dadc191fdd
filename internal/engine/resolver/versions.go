package resolver

import (
	"strings"

	"github.com/hashicorp/go-version"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// validateVersion accepts a single concrete version such as "33.14.0".
func validateVersion(v, field string) error {
	if _, err := version.NewVersion(v); err != nil {
		return invalidConstraint(v, field)
	}
	return nil
}

// validateConstraint accepts the dependency notations found in build scripts:
//   - a concrete version ("1.2.3")
//   - a comparison constraint (">= 1.2, < 2.0", "~> 1.2")
//   - a dynamic prefix ("1.2.+", "+")
//   - a Maven range ("[1.0,2.0)", "(,1.5]")
func validateConstraint(c, field string) error {
	switch {
	case c == "+":
		return nil
	case strings.HasSuffix(c, ".+"):
		return validateVersion(strings.TrimSuffix(c, ".+"), field)
	case isMavenRange(c):
		return validateMavenRange(c, field)
	}

	if _, err := version.NewVersion(c); err == nil {
		return nil
	}
	if _, err := version.NewConstraint(c); err == nil {
		return nil
	}
	return invalidConstraint(c, field)
}

func isMavenRange(c string) bool {
	return len(c) >= 2 && strings.ContainsAny(c[:1], "[(") && strings.ContainsAny(c[len(c)-1:], "])")
}

func validateMavenRange(c, field string) error {
	bounds := strings.Split(c[1:len(c)-1], ",")
	if len(bounds) > 2 {
		return invalidConstraint(c, field)
	}

	// A single bound without a comma pins an exact version and must be inclusive, e.g. "[1.0]".
	if len(bounds) == 1 && (c[0] != '[' || c[len(c)-1] != ']') {
		return invalidConstraint(c, field)
	}

	var parsed []*version.Version
	for _, b := range bounds {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		v, err := version.NewVersion(b)
		if err != nil {
			return invalidConstraint(c, field)
		}
		parsed = append(parsed, v)
	}

	switch {
	case len(parsed) == 0:
		return invalidConstraint(c, field)
	case len(parsed) == 2 && parsed[0].GreaterThan(parsed[1]):
		return invalidConstraint(c, field)
	}
	return nil
}

func invalidConstraint(c, field string) error {
	return zerr.With(domain.FieldError(domain.ErrInvalidVersionConstraint, field), "constraint", c)
}
