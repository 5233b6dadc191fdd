// Package resolver turns raw build configuration into a validated, defaulted snapshot.
package resolver

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigResolver = (*Resolver)(nil)

// Resolver implements ports.ConfigResolver.
// It holds no state: every call to Resolve is an independent, pure transform.
type Resolver struct{}

// New creates a new Resolver.
func New() *Resolver {
	return &Resolver{}
}

// step fills one section of the snapshot. Steps run in order and later steps may read earlier sections.
type step func(in *domain.ConfigInput, out *domain.ResolvedConfig) error

// Resolve validates input and merges it with defaults.
// On failure the zero ResolvedConfig is returned together with the first error found.
func (r *Resolver) Resolve(input domain.ConfigInput) (domain.ResolvedConfig, error) {
	steps := []step{
		resolveSchemaVersion,
		resolvePlugins,
		resolvePlatforms,
		resolveDependencies,
		resolveSigningIdentities,
		resolveVariants,
		resolveApplication,
		resolveSDK,
		resolveRepositories,
		resolveLayout,
		resolveProjects,
		resolveFlutter,
	}

	var out domain.ResolvedConfig
	for _, s := range steps {
		if err := s(&input, &out); err != nil {
			return domain.ResolvedConfig{}, err
		}
	}
	return out, nil
}

func resolveSchemaVersion(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	switch in.Version {
	case "", domain.SchemaVersion:
		out.Version = domain.SchemaVersion
		return nil
	default:
		return zerr.With(domain.FieldError(domain.ErrUnsupportedSchemaVersion, "version"), "version", in.Version)
	}
}

func resolveApplication(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	app := in.Application
	if app.ID == "" {
		return domain.FieldError(domain.ErrMissingRequiredField, "application.id")
	}
	if app.VersionCode < 0 {
		return zerr.With(domain.FieldError(domain.ErrInvalidValue, "application.versionCode"), "value", app.VersionCode)
	}

	out.Application = domain.ResolvedApplication{
		ID:          app.ID,
		Namespace:   orDefault(app.Namespace, app.ID),
		VersionCode: orDefault(app.VersionCode, domain.DefaultVersionCode),
		VersionName: orDefault(app.VersionName, domain.DefaultVersionName),
	}
	return nil
}

func resolveSDK(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	sdk := in.SDK
	levels := []struct {
		field string
		value int
	}{
		{"sdk.compileSdk", sdk.CompileSDK},
		{"sdk.targetSdk", sdk.TargetSDK},
		{"sdk.minSdk", sdk.MinSDK},
	}
	for _, l := range levels {
		if l.value < 0 {
			return zerr.With(domain.FieldError(domain.ErrInvalidValue, l.field), "value", l.value)
		}
	}

	// Unset levels are derived from the declared ones.
	compileSDK := orDefault(sdk.CompileSDK, max(domain.DefaultCompileSDK, sdk.TargetSDK))
	targetSDK := orDefault(sdk.TargetSDK, min(domain.DefaultTargetSDK, compileSDK))

	resolved := domain.ResolvedSDK{
		CompileSDK:  compileSDK,
		TargetSDK:   targetSDK,
		MinSDK:      orDefault(sdk.MinSDK, domain.DefaultMinSDK),
		NDKVersion:  orDefault(sdk.NDKVersion, domain.DefaultNDKVersion),
		JavaVersion: normalizeJavaVersion(orDefault(sdk.JavaVersion, domain.DefaultJavaVersion)),
	}

	if resolved.MinSDK > resolved.TargetSDK {
		err := domain.FieldError(domain.ErrInvalidSDKRange, "sdk.minSdk")
		err = zerr.With(err, "min_sdk", resolved.MinSDK)
		return zerr.With(err, "target_sdk", resolved.TargetSDK)
	}
	if resolved.TargetSDK > resolved.CompileSDK {
		err := domain.FieldError(domain.ErrInvalidSDKRange, "sdk.targetSdk")
		err = zerr.With(err, "target_sdk", resolved.TargetSDK)
		return zerr.With(err, "compile_sdk", resolved.CompileSDK)
	}
	if err := validateVersion(resolved.NDKVersion, "sdk.ndkVersion"); err != nil {
		return err
	}

	out.SDK = resolved
	return nil
}

// normalizeJavaVersion accepts Gradle's JavaVersion constant names, e.g. VERSION_1_8 becomes 1.8.
func normalizeJavaVersion(v string) string {
	v = strings.TrimPrefix(v, "JavaVersion.")
	v = strings.TrimPrefix(v, "VERSION_")
	return strings.ReplaceAll(v, "_", ".")
}

// resolvePlugins treats plugins as a set: ids must be unique and the output is ordered by id.
func resolvePlugins(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	seen := make(map[string]int, len(in.Plugins))
	plugins := make([]domain.ResolvedPlugin, 0, len(in.Plugins))

	for i, p := range in.Plugins {
		field := fmt.Sprintf("plugins[%d]", i)
		if p.ID == "" {
			return domain.FieldError(domain.ErrMissingRequiredField, field+".id")
		}
		if first, dup := seen[p.ID]; dup {
			err := zerr.With(domain.FieldError(domain.ErrDuplicatePlugin, field+".id"), "plugin", p.ID)
			return zerr.With(err, "first_occurrence", fmt.Sprintf("plugins[%d]", first))
		}
		seen[p.ID] = i

		if p.VersionOverride != "" {
			if err := validateVersion(p.VersionOverride, field+".versionOverride"); err != nil {
				return err
			}
		}
		plugins = append(plugins, domain.ResolvedPlugin{ID: p.ID, Version: p.VersionOverride})
	}

	slices.SortFunc(plugins, func(a, b domain.ResolvedPlugin) int {
		return strings.Compare(a.ID, b.ID)
	})
	out.Plugins = plugins
	return nil
}

func resolvePlatforms(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	seen := make(map[string]bool, len(in.Platforms))
	platforms := make([]domain.ResolvedPlatform, 0, len(in.Platforms))

	for i, p := range in.Platforms {
		field := fmt.Sprintf("platforms[%d]", i)
		coord, err := parseCoordinate(p.Coordinate, field+".coordinate")
		if err != nil {
			return err
		}
		if seen[coord.String()] {
			return zerr.With(domain.FieldError(domain.ErrDuplicatePlatform, field+".coordinate"), "coordinate", coord.String())
		}
		seen[coord.String()] = true

		if p.Version == "" {
			return domain.FieldError(domain.ErrMissingRequiredField, field+".version")
		}
		if err := validateVersion(p.Version, field+".version"); err != nil {
			return err
		}
		platforms = append(platforms, domain.ResolvedPlatform{Coordinate: coord.String(), Version: p.Version})
	}

	slices.SortFunc(platforms, func(a, b domain.ResolvedPlatform) int {
		return strings.Compare(a.Coordinate, b.Coordinate)
	})
	out.Platforms = platforms
	return nil
}

func resolveDependencies(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	seen := make(map[string]bool, len(in.Dependencies))
	deps := make([]domain.ResolvedDependency, 0, len(in.Dependencies))

	for i, d := range in.Dependencies {
		field := fmt.Sprintf("dependencies[%d]", i)
		coord, err := parseCoordinate(d.Coordinate, field+".coordinate")
		if err != nil {
			return err
		}
		if seen[coord.String()] {
			return zerr.With(domain.FieldError(domain.ErrDuplicateDependency, field+".coordinate"), "coordinate", coord.String())
		}
		seen[coord.String()] = true

		resolved := domain.ResolvedDependency{Coordinate: coord.String()}
		if d.BOMManaged {
			if d.VersionConstraint != "" {
				err := domain.FieldError(domain.ErrConflictingVersionConstraint, field+".versionConstraint")
				err = zerr.With(err, "coordinate", coord.String())
				return zerr.With(err, "version_constraint", d.VersionConstraint)
			}
			platform, ok := managingPlatform(coord, out.Platforms)
			if !ok {
				return zerr.With(domain.FieldError(domain.ErrUnmanagedDependency, field+".bomManaged"), "coordinate", coord.String())
			}
			resolved.ManagedBy = platform
		} else {
			if d.VersionConstraint == "" {
				return domain.FieldError(domain.ErrMissingRequiredField, field+".versionConstraint")
			}
			if err := validateConstraint(d.VersionConstraint, field+".versionConstraint"); err != nil {
				return err
			}
			resolved.Version = d.VersionConstraint
		}
		deps = append(deps, resolved)
	}

	slices.SortFunc(deps, func(a, b domain.ResolvedDependency) int {
		return strings.Compare(a.Coordinate, b.Coordinate)
	})
	out.Dependencies = deps
	return nil
}

// managingPlatform picks the platform that supplies the version of a BoM-managed dependency:
// the first platform of the same group, or the only platform when the dependency has no group match.
// platforms must already be sorted.
func managingPlatform(coord domain.Coordinate, platforms []domain.ResolvedPlatform) (string, bool) {
	if coord.Group != "" {
		for _, p := range platforms {
			if strings.HasPrefix(p.Coordinate, coord.Group+":") {
				return p.Coordinate, true
			}
		}
	}
	if len(platforms) == 1 {
		return platforms[0].Coordinate, true
	}
	return "", false
}

func resolveSigningIdentities(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	seen := make(map[string]bool, len(in.SigningIdentities))
	identities := make([]domain.ResolvedSigningIdentity, 0, len(in.SigningIdentities))

	for i, s := range in.SigningIdentities {
		field := fmt.Sprintf("signingIdentities[%d]", i)
		if s.Name == "" {
			return domain.FieldError(domain.ErrMissingRequiredField, field+".name")
		}
		if seen[s.Name] {
			return zerr.With(domain.FieldError(domain.ErrDuplicateSigningIdentity, field+".name"), "name", s.Name)
		}
		seen[s.Name] = true
		identities = append(identities, domain.ResolvedSigningIdentity{
			Name:      s.Name,
			StoreFile: s.StoreFile,
			KeyAlias:  s.KeyAlias,
		})
	}

	slices.SortFunc(identities, func(a, b domain.ResolvedSigningIdentity) int {
		return strings.Compare(a.Name, b.Name)
	})
	out.SigningIdentities = identities
	return nil
}

func resolveVariants(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	known := make(map[string]bool, len(out.SigningIdentities))
	for _, s := range out.SigningIdentities {
		known[s.Name] = true
	}

	seen := make(map[domain.VariantName]bool, len(in.Variants))
	variants := make([]domain.ResolvedVariant, 0, len(in.Variants))

	for i, v := range in.Variants {
		field := fmt.Sprintf("variants[%d]", i)
		if v.Name == "" {
			return domain.FieldError(domain.ErrMissingRequiredField, field+".name")
		}
		if !v.Name.Valid() {
			return zerr.With(domain.FieldError(domain.ErrInvalidVariant, field+".name"), "variant", v.Name.String())
		}
		if seen[v.Name] {
			return zerr.With(domain.FieldError(domain.ErrDuplicateVariant, field+".name"), "variant", v.Name.String())
		}
		seen[v.Name] = true

		if v.SigningRef == "" {
			return domain.FieldError(domain.ErrMissingRequiredField, field+".signingRef")
		}
		if !known[v.SigningRef] {
			err := domain.FieldError(domain.ErrUnknownSigningIdentity, field+".signingRef")
			return zerr.With(err, "signing_ref", v.SigningRef)
		}
		variants = append(variants, domain.ResolvedVariant{Name: v.Name.String(), SigningRef: v.SigningRef})
	}

	slices.SortFunc(variants, func(a, b domain.ResolvedVariant) int {
		return strings.Compare(a.Name, b.Name)
	})
	out.Variants = variants
	return nil
}

// resolveRepositories keeps declaration order, since repositories are searched in order, and drops repeats.
func resolveRepositories(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	if len(in.Repositories) == 0 {
		out.Repositories = domain.DefaultRepositories()
		return nil
	}

	repos := make([]string, 0, len(in.Repositories))
	for i, repo := range in.Repositories {
		repo = strings.TrimSpace(repo)
		if repo == "" {
			return domain.FieldError(domain.ErrMissingRequiredField, fmt.Sprintf("repositories[%d]", i))
		}
		if !slices.Contains(repos, repo) {
			repos = append(repos, repo)
		}
	}
	out.Repositories = repos
	return nil
}

func resolveLayout(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	dir := strings.TrimSpace(in.Layout.BuildDir)
	if dir == "" {
		dir = domain.DefaultBuildDir
	}
	out.Layout = domain.ResolvedLayout{BuildDir: path.Clean(filepath.ToSlash(dir))}
	return nil
}

func resolveProjects(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	projects := in.Projects
	if len(projects) == 0 {
		projects = []domain.ProjectConfig{{Name: domain.DefaultProject}}
	}

	declared := make(map[string]bool, len(projects))
	for i, p := range projects {
		field := fmt.Sprintf("projects[%d].name", i)
		if p.Name == "" {
			return domain.FieldError(domain.ErrMissingRequiredField, field)
		}
		if !validProjectName(p.Name) {
			return zerr.With(domain.FieldError(domain.ErrInvalidValue, field), "value", p.Name)
		}
		if declared[p.Name] {
			return zerr.With(domain.FieldError(domain.ErrDuplicateProject, field), "project", p.Name)
		}
		declared[p.Name] = true
	}

	g := domain.NewProjectGraph()
	for i, p := range projects {
		deps := slices.Clone(p.EvaluationDependsOn)
		slices.Sort(deps)
		deps = slices.Compact(deps)
		for _, dep := range deps {
			if !declared[dep] {
				err := domain.FieldError(domain.ErrMissingDependency, fmt.Sprintf("projects[%d].evaluationDependsOn", i))
				err = zerr.With(err, "project", p.Name)
				return zerr.With(err, "dependency", dep)
			}
		}

		if err := g.AddProject(&domain.Project{
			Name:                domain.NewInternedString(p.Name),
			EvaluationDependsOn: domain.NewInternedStrings(deps),
		}); err != nil {
			return err
		}
	}
	if err := g.Validate(); err != nil {
		return err
	}

	resolved := make([]domain.ResolvedProject, 0, len(projects))
	for p := range g.Walk() {
		var deps []string
		for _, d := range p.EvaluationDependsOn {
			deps = append(deps, d.String())
		}
		resolved = append(resolved, domain.ResolvedProject{
			Name:                p.Name.String(),
			EvaluationDependsOn: deps,
			BuildDir:            domain.ProjectBuildDir(out.Layout.BuildDir, p.Name.String()),
		})
	}
	out.Projects = resolved
	return nil
}

// validProjectName reports whether name can be used as a single directory below the build directory.
func validProjectName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func resolveFlutter(in *domain.ConfigInput, out *domain.ResolvedConfig) error {
	out.Flutter = domain.ResolvedFlutter{Source: orDefault(in.Flutter.Source, domain.DefaultFlutterDir)}
	return nil
}

func parseCoordinate(s, field string) (domain.Coordinate, error) {
	if s == "" {
		return domain.Coordinate{}, domain.FieldError(domain.ErrMissingRequiredField, field)
	}
	coord, err := domain.ParseCoordinate(s)
	if err != nil {
		return domain.Coordinate{}, zerr.With(domain.FieldError(domain.ErrInvalidCoordinate, field), "coordinate", s)
	}
	return coord, nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
