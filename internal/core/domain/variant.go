package domain

// VariantName is the name of a build variant.
type VariantName string

const (
	// VariantDebug is the debuggable development variant.
	VariantDebug VariantName = "debug"
	// VariantRelease is the optimized, distributable variant.
	VariantRelease VariantName = "release"
)

// Valid reports whether the name is one of the supported variants.
func (v VariantName) Valid() bool {
	switch v {
	case VariantDebug, VariantRelease:
		return true
	default:
		return false
	}
}

func (v VariantName) String() string {
	return string(v)
}
