package config

// Rigfile represents the structure of the rig.yaml configuration file.
type Rigfile struct {
	Version           string               `yaml:"version"`
	Application       ApplicationDTO       `yaml:"application"`
	SDK               SDKDTO               `yaml:"sdk"`
	Plugins           []PluginDTO          `yaml:"plugins"`
	Platforms         []PlatformDTO        `yaml:"platforms"`
	Dependencies      []DependencyDTO      `yaml:"dependencies"`
	SigningIdentities []SigningIdentityDTO `yaml:"signingIdentities"`
	Variants          []VariantDTO         `yaml:"variants"`
	Repositories      []string             `yaml:"repositories"`
	Projects          []ProjectDTO         `yaml:"projects"`
	Layout            LayoutDTO            `yaml:"layout"`
	Flutter           FlutterDTO           `yaml:"flutter"`
}

// ApplicationDTO represents the application block.
type ApplicationDTO struct {
	ID          string `yaml:"id"`
	Namespace   string `yaml:"namespace"`
	VersionCode int    `yaml:"versionCode"`
	VersionName string `yaml:"versionName"`
}

// SDKDTO represents the sdk block.
type SDKDTO struct {
	CompileSDK  int    `yaml:"compileSdk"`
	TargetSDK   int    `yaml:"targetSdk"`
	MinSDK      int    `yaml:"minSdk"`
	NDKVersion  string `yaml:"ndkVersion"`
	JavaVersion string `yaml:"javaVersion"`
}

// PluginDTO represents a plugin entry.
type PluginDTO struct {
	ID      string `yaml:"id"`
	Version string `yaml:"version"`
}

// PlatformDTO represents a BoM import.
// Coordinate may carry the version as a third segment ("group:artifact:version").
type PlatformDTO struct {
	Coordinate string `yaml:"coordinate"`
	Version    string `yaml:"version"`
}

// DependencyDTO represents a dependency entry.
type DependencyDTO struct {
	Coordinate string `yaml:"coordinate"`
	Version    string `yaml:"version"`
	BOMManaged bool   `yaml:"bomManaged"`
}

// SigningIdentityDTO represents a signing identity entry.
type SigningIdentityDTO struct {
	Name      string `yaml:"name"`
	StoreFile string `yaml:"storeFile"`
	KeyAlias  string `yaml:"keyAlias"`
}

// VariantDTO represents a build variant entry.
type VariantDTO struct {
	Name       string `yaml:"name"`
	SigningRef string `yaml:"signingRef"`
}

// ProjectDTO represents a project entry.
type ProjectDTO struct {
	Name                string   `yaml:"name"`
	EvaluationDependsOn []string `yaml:"evaluationDependsOn"`
}

// LayoutDTO represents the layout block.
type LayoutDTO struct {
	BuildDir string `yaml:"buildDir"`
}

// FlutterDTO represents the flutter block.
type FlutterDTO struct {
	Source string `yaml:"source"`
}
