package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicatePlugin is returned when two plugin declarations share the same id.
	ErrDuplicatePlugin = zerr.New("duplicate plugin")

	// ErrConflictingVersionConstraint is returned when a BoM-managed dependency also pins a version.
	ErrConflictingVersionConstraint = zerr.New("conflicting version constraint")

	// ErrUnknownSigningIdentity is returned when a build variant references an undeclared signing identity.
	ErrUnknownSigningIdentity = zerr.New("unknown signing identity")

	// ErrMissingRequiredField is returned when a required field is absent from the configuration.
	ErrMissingRequiredField = zerr.New("missing required field")

	// ErrInvalidVariant is returned when a build variant name is not one of the supported variants.
	ErrInvalidVariant = zerr.New("invalid build variant")

	// ErrDuplicateVariant is returned when the same build variant is configured twice.
	ErrDuplicateVariant = zerr.New("duplicate build variant")

	// ErrDuplicateDependency is returned when the same coordinate is declared twice.
	ErrDuplicateDependency = zerr.New("duplicate dependency")

	// ErrDuplicatePlatform is returned when the same BoM platform is imported twice.
	ErrDuplicatePlatform = zerr.New("duplicate platform")

	// ErrDuplicateSigningIdentity is returned when two signing identities share a name.
	ErrDuplicateSigningIdentity = zerr.New("duplicate signing identity")

	// ErrInvalidVersionConstraint is returned when a version or constraint cannot be parsed.
	ErrInvalidVersionConstraint = zerr.New("invalid version constraint")

	// ErrInvalidCoordinate is returned when a dependency coordinate is not of the form group:artifact.
	ErrInvalidCoordinate = zerr.New("invalid coordinate")

	// ErrInvalidSDKRange is returned when minSdk <= targetSdk <= compileSdk does not hold.
	ErrInvalidSDKRange = zerr.New("invalid sdk range")

	// ErrUnmanagedDependency is returned when a BoM-managed dependency has no platform to take its version from.
	ErrUnmanagedDependency = zerr.New("no platform manages dependency")

	// ErrInvalidValue is returned when a numeric field holds a value outside its domain.
	ErrInvalidValue = zerr.New("invalid value")

	// ErrDuplicateProject is returned when two projects share a name.
	ErrDuplicateProject = zerr.New("duplicate project")

	// ErrMissingDependency is returned when a project evaluates after a project that is not declared.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the project evaluation graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnsupportedSchemaVersion is returned when the configuration declares an unknown schema version.
	ErrUnsupportedSchemaVersion = zerr.New("unsupported schema version")

	// ErrConfigNotFound is returned when no configuration file can be discovered.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrUnsupportedFormat is returned when an output format is not recognized.
	ErrUnsupportedFormat = zerr.New("unsupported output format")

	// ErrValidationFailed is returned when at least one configuration file fails validation.
	ErrValidationFailed = zerr.New("validation failed")

	// ErrUnsafeBuildDir is returned when clean would remove the configuration directory or one of its ancestors.
	ErrUnsafeBuildDir = zerr.New("refusing to remove build directory")
)

// FieldError reports sentinel for the named configuration field.
// The sentinel stays reachable through errors.Is and the field is attached as metadata.
func FieldError(sentinel error, field string) error {
	return zerr.With(zerr.Wrap(sentinel, field), "field", field)
}
