package domain

// Default values applied to unset optional fields.
const (
	DefaultCompileSDK  = 35
	DefaultTargetSDK   = 35
	DefaultMinSDK      = 21
	DefaultNDKVersion  = "27.0.12077973"
	DefaultJavaVersion = "11"
	DefaultVersionCode = 1
	DefaultVersionName = "1.0.0"
	DefaultBuildDir    = "build"
	DefaultFlutterDir  = "../.."
	DefaultProject     = "app"
)

// DefaultRepositories are the artifact repositories used when none are declared.
func DefaultRepositories() []string {
	return []string{"google", "mavenCentral"}
}
