package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/config"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const faceEntryConfig = `
version: "1"
application:
  id: com.stecu.faceentry.faceentry
  namespace: com.stecu.faceentry.faceentry
  versionCode: 3
  versionName: 1.2.0
sdk:
  minSdk: 23
  javaVersion: 11
plugins:
  - id: com.android.application
  - id: kotlin-android
  - id: dev.flutter.flutter-gradle-plugin
  - id: com.google.gms.google-services
    version: 4.4.2
platforms:
  - coordinate: com.google.firebase:firebase-bom:33.14.0
dependencies:
  - coordinate: com.google.firebase:firebase-analytics
    bomManaged: true
  - coordinate: androidx.multidex:multidex
    version: 2.0.1
signingIdentities:
  - name: debug
variants:
  - name: release
    signingRef: debug
repositories:
  - google
  - mavenCentral
projects:
  - name: app
  - name: camera
    evaluationDependsOn: [app]
layout:
  buildDir: ../../build
flutter:
  source: ../..
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	path := writeConfig(t, t.TempDir(), faceEntryConfig)

	in, err := config.NewLoader(log).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1", in.Version)
	assert.Equal(t, "com.stecu.faceentry.faceentry", in.Application.ID)
	assert.Equal(t, 3, in.Application.VersionCode)
	assert.Equal(t, "1.2.0", in.Application.VersionName)
	assert.Equal(t, 23, in.SDK.MinSDK)
	assert.Equal(t, "11", in.SDK.JavaVersion)

	require.Len(t, in.Plugins, 4)
	assert.Equal(t, domain.PluginDeclaration{ID: "com.google.gms.google-services", VersionOverride: "4.4.2"}, in.Plugins[3])

	assert.Equal(t, []domain.PlatformDeclaration{
		{Coordinate: "com.google.firebase:firebase-bom", Version: "33.14.0"},
	}, in.Platforms)

	assert.Equal(t, []domain.DependencyDeclaration{
		{Coordinate: "com.google.firebase:firebase-analytics", BOMManaged: true},
		{Coordinate: "androidx.multidex:multidex", VersionConstraint: "2.0.1"},
	}, in.Dependencies)

	assert.Equal(t, []domain.BuildVariantConfig{{Name: domain.VariantRelease, SigningRef: "debug"}}, in.Variants)
	assert.Equal(t, []string{"google", "mavenCentral"}, in.Repositories)
	assert.Equal(t, []domain.ProjectConfig{
		{Name: "app"},
		{Name: "camera", EvaluationDependsOn: []string{"app"}},
	}, in.Projects)
	assert.Equal(t, "../../build", in.Layout.BuildDir)
	assert.Equal(t, "../..", in.Flutter.Source)
}

func TestLoader_Load_SeparatePlatformVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	path := writeConfig(t, t.TempDir(), `
plugins:
  - id: com.android.application
platforms:
  - coordinate: com.google.firebase:firebase-bom
    version: 33.14.0
`)

	in, err := config.NewLoader(log).Load(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.PlatformDeclaration{
		{Coordinate: "com.google.firebase:firebase-bom", Version: "33.14.0"},
	}, in.Platforms)
}

func TestLoader_Load_GradleNotation(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	path := writeConfig(t, t.TempDir(), `
plugins:
  - id: com.android.application
platforms:
  - coordinate: com.google.firebase:firebase-bom:33.14.0
dependencies:
  - coordinate: androidx.core:core-ktx:1.13.1
  - coordinate: androidx.multidex:multidex
    version: 2.0.1
  - coordinate: com.google.firebase:firebase-auth
    bomManaged: true
`)

	in, err := config.NewLoader(log).Load(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.PlatformDeclaration{
		{Coordinate: "com.google.firebase:firebase-bom", Version: "33.14.0"},
	}, in.Platforms)
	assert.Equal(t, []domain.DependencyDeclaration{
		{Coordinate: "androidx.core:core-ktx", VersionConstraint: "1.13.1"},
		{Coordinate: "androidx.multidex:multidex", VersionConstraint: "2.0.1"},
		{Coordinate: "com.google.firebase:firebase-auth", BOMManaged: true},
	}, in.Dependencies)
}

func TestLoader_Load_WarnsWithoutPlugins(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	path := writeConfig(t, t.TempDir(), "application:\n  id: com.example.app\n")

	in, err := config.NewLoader(log).Load(path)
	require.NoError(t, err)
	assert.Empty(t, in.Plugins)
}

func TestLoader_Load_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	loader := config.NewLoader(log)

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), domain.ConfigFileName)
		_, err := loader.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T", err)
		assert.Equal(t, path, zErr.Metadata()["path"])
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "plugins: [\n")
		_, err := loader.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("wrong shape", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "plugins: not-a-list\n")
		_, err := loader.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode config file")
	})
}

func TestLoader_Discover(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	loader := config.NewLoader(log)

	root := t.TempDir()
	want := writeConfig(t, root, faceEntryConfig)

	nested := filepath.Join(root, "android", "app", "src")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	t.Run("from config dir", func(t *testing.T) {
		got, err := loader.Discover(root)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("from nested dir", func(t *testing.T) {
		got, err := loader.Discover(nested)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestLoader_Discover_NearestWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	writeConfig(t, root, faceEntryConfig)
	inner := filepath.Join(root, "android")
	require.NoError(t, os.MkdirAll(inner, domain.DirPerm))
	want := writeConfig(t, inner, faceEntryConfig)

	got, err := config.NewLoader(log).Discover(inner)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoader_Discover_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	loader := &config.Loader{Logger: log, Filename: "rig-test-does-not-exist.yaml"}
	_, err := loader.Discover(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_Discover_IgnoresDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	fake := filepath.Join(root, "rig-dir.yaml")
	require.NoError(t, os.MkdirAll(fake, domain.DirPerm))

	loader := &config.Loader{Logger: log, Filename: "rig-dir.yaml"}
	_, err := loader.Discover(root)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}
