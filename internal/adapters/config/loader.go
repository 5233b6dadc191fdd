// Package config provides the configuration loader for rig.
package config

import (
	"os"
	"path/filepath"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file read through koanf.
type Loader struct {
	Logger   ports.Logger
	Filename string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Filename: domain.ConfigFileName}
}

// Discover walks up from cwd and returns the nearest configuration file.
func (l *Loader) Discover(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}

	for {
		candidate := filepath.Join(currentDir, l.filename())
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, l.filename()), "cwd", cwd)
}

// Load reads the configuration file at path.
func (l *Loader) Load(path string) (*domain.ConfigInput, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	var rigfile Rigfile
	if err := k.UnmarshalWithConf("", &rigfile, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode config file"), "path", path)
	}

	if len(rigfile.Plugins) == 0 {
		l.Logger.Warn("no plugins declared in " + path)
	}

	return toInput(&rigfile), nil
}

func (l *Loader) filename() string {
	if l.Filename == "" {
		return domain.ConfigFileName
	}
	return l.Filename
}

func toInput(f *Rigfile) *domain.ConfigInput {
	in := &domain.ConfigInput{
		Version: f.Version,
		Application: domain.ApplicationConfig{
			ID:          f.Application.ID,
			Namespace:   f.Application.Namespace,
			VersionCode: f.Application.VersionCode,
			VersionName: f.Application.VersionName,
		},
		SDK: domain.SDKConfig{
			CompileSDK:  f.SDK.CompileSDK,
			TargetSDK:   f.SDK.TargetSDK,
			MinSDK:      f.SDK.MinSDK,
			NDKVersion:  f.SDK.NDKVersion,
			JavaVersion: f.SDK.JavaVersion,
		},
		Repositories: f.Repositories,
		Layout:       domain.LayoutConfig{BuildDir: f.Layout.BuildDir},
		Flutter:      domain.FlutterConfig{Source: f.Flutter.Source},
	}

	for _, p := range f.Plugins {
		in.Plugins = append(in.Plugins, domain.PluginDeclaration{ID: p.ID, VersionOverride: p.Version})
	}
	for _, p := range f.Platforms {
		in.Platforms = append(in.Platforms, splitPlatform(p))
	}
	for _, d := range f.Dependencies {
		coordinate, version := splitNotation(d.Coordinate, d.Version)
		in.Dependencies = append(in.Dependencies, domain.DependencyDeclaration{
			Coordinate:        coordinate,
			VersionConstraint: version,
			BOMManaged:        d.BOMManaged,
		})
	}
	for _, s := range f.SigningIdentities {
		in.SigningIdentities = append(in.SigningIdentities, domain.SigningIdentity{
			Name:      s.Name,
			StoreFile: s.StoreFile,
			KeyAlias:  s.KeyAlias,
		})
	}
	for _, v := range f.Variants {
		in.Variants = append(in.Variants, domain.BuildVariantConfig{
			Name:       domain.VariantName(v.Name),
			SigningRef: v.SigningRef,
		})
	}
	for _, p := range f.Projects {
		in.Projects = append(in.Projects, domain.ProjectConfig{
			Name:                p.Name,
			EvaluationDependsOn: p.EvaluationDependsOn,
		})
	}

	return in
}

// splitPlatform accepts the Gradle notation "group:artifact:version" when no separate version is given.
func splitPlatform(p PlatformDTO) domain.PlatformDeclaration {
	coordinate, version := splitNotation(p.Coordinate, p.Version)
	return domain.PlatformDeclaration{Coordinate: coordinate, Version: version}
}

// splitNotation splits "group:artifact:version" into coordinate and version unless version is already set.
func splitNotation(coordinate, version string) (string, string) {
	if version == "" && strings.Count(coordinate, ":") == 2 {
		i := strings.LastIndex(coordinate, ":")
		return coordinate[:i], coordinate[i+1:]
	}
	return coordinate, version
}
