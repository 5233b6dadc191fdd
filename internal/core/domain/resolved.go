package domain

import "slices"

// SchemaVersion is the only configuration schema version understood by rig.
const SchemaVersion = "1"

// ResolvedConfig is the validated, defaulted snapshot of a ConfigInput.
// It is produced once per resolution run and must not be mutated afterwards.
// Collections are in canonical order so that equal inputs serialize to identical bytes.
type ResolvedConfig struct {
	Version           string                    `json:"version"            yaml:"version"`
	Application       ResolvedApplication       `json:"application"        yaml:"application"`
	SDK               ResolvedSDK               `json:"sdk"                yaml:"sdk"`
	Plugins           []ResolvedPlugin          `json:"plugins"            yaml:"plugins"`
	Platforms         []ResolvedPlatform        `json:"platforms"          yaml:"platforms"`
	Dependencies      []ResolvedDependency      `json:"dependencies"       yaml:"dependencies"`
	SigningIdentities []ResolvedSigningIdentity `json:"signing_identities" yaml:"signingIdentities"`
	Variants          []ResolvedVariant         `json:"variants"           yaml:"variants"`
	Repositories      []string                  `json:"repositories"       yaml:"repositories"`
	Projects          []ResolvedProject         `json:"projects"           yaml:"projects"`
	Layout            ResolvedLayout            `json:"layout"             yaml:"layout"`
	Flutter           ResolvedFlutter           `json:"flutter"            yaml:"flutter"`
}

// ResolvedApplication is the application identity with defaults applied.
type ResolvedApplication struct {
	ID          string `json:"id"           yaml:"id"`
	Namespace   string `json:"namespace"    yaml:"namespace"`
	VersionCode int    `json:"version_code" yaml:"versionCode"`
	VersionName string `json:"version_name" yaml:"versionName"`
}

// ResolvedSDK holds the effective SDK levels.
type ResolvedSDK struct {
	CompileSDK  int    `json:"compile_sdk"  yaml:"compileSdk"`
	TargetSDK   int    `json:"target_sdk"   yaml:"targetSdk"`
	MinSDK      int    `json:"min_sdk"      yaml:"minSdk"`
	NDKVersion  string `json:"ndk_version"  yaml:"ndkVersion"`
	JavaVersion string `json:"java_version" yaml:"javaVersion"`
}

// ResolvedPlugin is an applied plugin. Version is empty when inherited.
type ResolvedPlugin struct {
	ID      string `json:"id"                yaml:"id"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ResolvedPlatform is an imported BoM.
type ResolvedPlatform struct {
	Coordinate string `json:"coordinate" yaml:"coordinate"`
	Version    string `json:"version"    yaml:"version"`
}

// ResolvedDependency is a dependency with either an explicit version
// or the coordinate of the platform that manages it.
type ResolvedDependency struct {
	Coordinate string `json:"coordinate"           yaml:"coordinate"`
	Version    string `json:"version,omitempty"    yaml:"version,omitempty"`
	ManagedBy  string `json:"managed_by,omitempty" yaml:"managedBy,omitempty"`
}

// ResolvedSigningIdentity is a declared signing credential.
type ResolvedSigningIdentity struct {
	Name      string `json:"name"                 yaml:"name"`
	StoreFile string `json:"store_file,omitempty" yaml:"storeFile,omitempty"`
	KeyAlias  string `json:"key_alias,omitempty"  yaml:"keyAlias,omitempty"`
}

// ResolvedVariant is a build variant with a verified signing reference.
type ResolvedVariant struct {
	Name       string `json:"name"        yaml:"name"`
	SigningRef string `json:"signing_ref" yaml:"signingRef"`
}

// ResolvedProject is a project in evaluation order with its relocated build directory.
type ResolvedProject struct {
	Name                string   `json:"name"                            yaml:"name"`
	EvaluationDependsOn []string `json:"evaluation_depends_on,omitempty" yaml:"evaluationDependsOn,omitempty"`
	BuildDir            string   `json:"build_dir"                       yaml:"buildDir"`
}

// ResolvedLayout is the root build directory all project outputs are placed under.
type ResolvedLayout struct {
	BuildDir string `json:"build_dir" yaml:"buildDir"`
}

// ResolvedFlutter locates the Flutter sources.
type ResolvedFlutter struct {
	Source string `json:"source" yaml:"source"`
}

// ToInput converts the snapshot back into an input that resolves to an equal snapshot.
func (r *ResolvedConfig) ToInput() ConfigInput {
	in := ConfigInput{
		Version: r.Version,
		Application: ApplicationConfig{
			ID:          r.Application.ID,
			Namespace:   r.Application.Namespace,
			VersionCode: r.Application.VersionCode,
			VersionName: r.Application.VersionName,
		},
		SDK: SDKConfig{
			CompileSDK:  r.SDK.CompileSDK,
			TargetSDK:   r.SDK.TargetSDK,
			MinSDK:      r.SDK.MinSDK,
			NDKVersion:  r.SDK.NDKVersion,
			JavaVersion: r.SDK.JavaVersion,
		},
		Repositories: slices.Clone(r.Repositories),
		Layout:       LayoutConfig{BuildDir: r.Layout.BuildDir},
		Flutter:      FlutterConfig{Source: r.Flutter.Source},
	}

	for _, p := range r.Plugins {
		in.Plugins = append(in.Plugins, PluginDeclaration{ID: p.ID, VersionOverride: p.Version})
	}
	for _, p := range r.Platforms {
		in.Platforms = append(in.Platforms, PlatformDeclaration{Coordinate: p.Coordinate, Version: p.Version})
	}
	for _, d := range r.Dependencies {
		in.Dependencies = append(in.Dependencies, DependencyDeclaration{
			Coordinate:        d.Coordinate,
			VersionConstraint: d.Version,
			BOMManaged:        d.ManagedBy != "",
		})
	}
	for _, s := range r.SigningIdentities {
		in.SigningIdentities = append(in.SigningIdentities, SigningIdentity{
			Name:      s.Name,
			StoreFile: s.StoreFile,
			KeyAlias:  s.KeyAlias,
		})
	}
	for _, v := range r.Variants {
		in.Variants = append(in.Variants, BuildVariantConfig{Name: VariantName(v.Name), SigningRef: v.SigningRef})
	}
	for _, p := range r.Projects {
		in.Projects = append(in.Projects, ProjectConfig{
			Name:                p.Name,
			EvaluationDependsOn: slices.Clone(p.EvaluationDependsOn),
		})
	}

	return in
}
