package domain

// ConfigInput is the raw, unvalidated build configuration as read from rig.yaml.
// Zero values mean "unset"; defaults are applied during resolution.
type ConfigInput struct {
	Version           string
	Application       ApplicationConfig
	SDK               SDKConfig
	Plugins           []PluginDeclaration
	Platforms         []PlatformDeclaration
	Dependencies      []DependencyDeclaration
	SigningIdentities []SigningIdentity
	Variants          []BuildVariantConfig
	Repositories      []string
	Projects          []ProjectConfig
	Layout            LayoutConfig
	Flutter           FlutterConfig
}

// ApplicationConfig identifies the application being built.
type ApplicationConfig struct {
	ID          string
	Namespace   string
	VersionCode int
	VersionName string
}

// SDKConfig holds the Android SDK, NDK and Java levels.
type SDKConfig struct {
	CompileSDK  int
	TargetSDK   int
	MinSDK      int
	NDKVersion  string
	JavaVersion string
}

// PluginDeclaration applies a build plugin by id.
type PluginDeclaration struct {
	ID string
	// VersionOverride pins the plugin version; empty means the version is inherited.
	VersionOverride string
}

// PlatformDeclaration imports a Bill of Materials that manages the versions of other dependencies.
type PlatformDeclaration struct {
	Coordinate string
	Version    string
}

// DependencyDeclaration declares a library dependency.
type DependencyDeclaration struct {
	Coordinate        string
	VersionConstraint string
	BOMManaged        bool
}

// SigningIdentity is a named credential used to sign an artifact.
type SigningIdentity struct {
	Name      string
	StoreFile string
	KeyAlias  string
}

// BuildVariantConfig binds a build variant to a signing identity.
type BuildVariantConfig struct {
	Name       VariantName
	SigningRef string
}

// ProjectConfig is a subproject and the projects that must be evaluated before it.
type ProjectConfig struct {
	Name                string
	EvaluationDependsOn []string
}

// LayoutConfig relocates build outputs.
type LayoutConfig struct {
	BuildDir string
}

// FlutterConfig locates the Flutter sources relative to the Android project.
type FlutterConfig struct {
	Source string
}
