package app_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var fixedTime = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	loader    *mocks.MockConfigLoader
	resolver  *mocks.MockConfigResolver
	hasher    *mocks.MockHasher
	store     *mocks.MockResolutionStore
	writer    *mocks.MockResolvedWriter
	watcher   *mocks.MockWatcher
	telemetry *mocks.MockTelemetry
	vertex    *mocks.MockVertex
	logger    *mocks.MockLogger
	app       *app.App
	dir       string
	config    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:    mocks.NewMockConfigLoader(ctrl),
		resolver:  mocks.NewMockConfigResolver(ctrl),
		hasher:    mocks.NewMockHasher(ctrl),
		store:     mocks.NewMockResolutionStore(ctrl),
		writer:    mocks.NewMockResolvedWriter(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		vertex:    mocks.NewMockVertex(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		dir:       t.TempDir(),
	}
	f.config = filepath.Join(f.dir, domain.ConfigFileName)

	f.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, f.vertex
		}).AnyTimes()
	f.vertex.EXPECT().Stdout().Return(io.Discard).AnyTimes()
	f.vertex.EXPECT().Complete(gomock.Any()).AnyTimes()

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	f.app = app.New(f.loader, f.resolver, f.hasher, f.store, f.writer, f.watcher, f.telemetry, f.logger).
		WithClock(func() time.Time { return fixedTime }).
		WithWorkingDir(f.dir)
	return f
}

func resolvedConfig() domain.ResolvedConfig {
	return domain.ResolvedConfig{
		Version:     domain.SchemaVersion,
		Application: domain.ResolvedApplication{ID: "com.stecu.faceentry.faceentry"},
		Plugins:     []domain.ResolvedPlugin{{ID: "com.android.application"}},
		Layout:      domain.ResolvedLayout{BuildDir: "build"},
	}
}

// expectResolution sets up a successful load, resolve and fingerprint of the fixture's configuration.
func (f *fixture) expectResolution(fingerprint string) {
	input := &domain.ConfigInput{Application: domain.ApplicationConfig{ID: "com.stecu.faceentry.faceentry"}}
	cfg := resolvedConfig()
	f.loader.EXPECT().Load(f.config).Return(input, nil)
	f.resolver.EXPECT().Resolve(*input).Return(cfg, nil)
	f.hasher.EXPECT().Fingerprint(&cfg).Return(fingerprint, nil)
}

func TestApp_Resolve_Writes(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, domain.DefaultOutputFile)

	f.loader.EXPECT().Discover(f.dir).Return(f.config, nil)
	f.expectResolution("abc")
	f.store.EXPECT().Get(f.config).Return(nil, nil)
	f.writer.EXPECT().Write(gomock.Any(), output, domain.FormatYAML).Return(nil)
	f.store.EXPECT().Put(domain.ResolutionRecord{
		ConfigPath:  f.config,
		Fingerprint: "abc",
		OutputPath:  output,
		Format:      domain.FormatYAML,
		Timestamp:   fixedTime,
	}).Return(nil)

	result, err := f.app.Resolve(context.Background(), app.ResolveOptions{})
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, f.config, result.ConfigPath)
	assert.Equal(t, output, result.OutputPath)
	assert.Equal(t, "abc", result.Fingerprint)
	assert.Equal(t, "com.stecu.faceentry.faceentry", result.Config.Application.ID)
}

func TestApp_Resolve_UpToDate(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, domain.DefaultOutputFile)
	require.NoError(t, os.WriteFile(output, []byte("version: \"1\"\n"), domain.FilePerm))

	f.expectResolution("abc")
	f.store.EXPECT().Get(f.config).Return(&domain.ResolutionRecord{
		ConfigPath:  f.config,
		Fingerprint: "abc",
		OutputPath:  output,
		Format:      domain.FormatYAML,
	}, nil)
	f.vertex.EXPECT().Cached()

	result, err := f.app.Resolve(context.Background(), app.ResolveOptions{ConfigPath: f.config})
	require.NoError(t, err)
	assert.True(t, result.Cached)
}

func TestApp_Resolve_Stale(t *testing.T) {
	tests := []struct {
		name   string
		record func(output string) *domain.ResolutionRecord
		create bool
	}{
		{
			name: "fingerprint changed",
			record: func(output string) *domain.ResolutionRecord {
				return &domain.ResolutionRecord{Fingerprint: "old", OutputPath: output, Format: domain.FormatYAML}
			},
			create: true,
		},
		{
			name: "output moved",
			record: func(_ string) *domain.ResolutionRecord {
				return &domain.ResolutionRecord{Fingerprint: "abc", OutputPath: "/elsewhere.yaml", Format: domain.FormatYAML}
			},
			create: true,
		},
		{
			name: "format changed",
			record: func(output string) *domain.ResolutionRecord {
				return &domain.ResolutionRecord{Fingerprint: "abc", OutputPath: output, Format: domain.FormatJSON}
			},
			create: true,
		},
		{
			name: "output deleted",
			record: func(output string) *domain.ResolutionRecord {
				return &domain.ResolutionRecord{Fingerprint: "abc", OutputPath: output, Format: domain.FormatYAML}
			},
			create: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			output := filepath.Join(f.dir, domain.DefaultOutputFile)
			if tt.create {
				require.NoError(t, os.WriteFile(output, []byte("stale"), domain.FilePerm))
			}

			f.expectResolution("abc")
			f.store.EXPECT().Get(f.config).Return(tt.record(output), nil)
			f.writer.EXPECT().Write(gomock.Any(), output, domain.FormatYAML).Return(nil)
			f.store.EXPECT().Put(gomock.Any()).Return(nil)

			result, err := f.app.Resolve(context.Background(), app.ResolveOptions{ConfigPath: f.config})
			require.NoError(t, err)
			assert.False(t, result.Cached)
		})
	}
}

func TestApp_Resolve_NoCache(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, "out.json")

	f.expectResolution("abc")
	f.writer.EXPECT().Write(gomock.Any(), output, domain.FormatJSON).Return(nil)
	f.store.EXPECT().Put(gomock.Any()).Return(nil)

	result, err := f.app.Resolve(context.Background(), app.ResolveOptions{
		ConfigPath: f.config,
		OutputPath: output,
		Format:     domain.FormatJSON,
		NoCache:    true,
	})
	require.NoError(t, err)
	assert.False(t, result.Cached)
}

func TestApp_Resolve_DefaultJSONOutput(t *testing.T) {
	f := newFixture(t)

	f.expectResolution("abc")
	f.store.EXPECT().Get(f.config).Return(nil, nil)
	f.writer.EXPECT().Write(gomock.Any(), filepath.Join(f.dir, "rig.resolved.json"), domain.FormatJSON).Return(nil)
	f.store.EXPECT().Put(gomock.Any()).Return(nil)

	_, err := f.app.Resolve(context.Background(), app.ResolveOptions{ConfigPath: f.config, Format: domain.FormatJSON})
	require.NoError(t, err)
}

func TestApp_Resolve_Stdout(t *testing.T) {
	f := newFixture(t)

	f.expectResolution("abc")
	f.writer.EXPECT().Write(gomock.Any(), app.StdoutPath, domain.FormatYAML).Return(nil)

	result, err := f.app.Resolve(context.Background(), app.ResolveOptions{ConfigPath: f.config, OutputPath: app.StdoutPath})
	require.NoError(t, err)
	assert.Equal(t, app.StdoutPath, result.OutputPath)
}

func TestApp_Resolve_ResolverError(t *testing.T) {
	f := newFixture(t)

	input := &domain.ConfigInput{}
	f.loader.EXPECT().Load(f.config).Return(input, nil)
	f.resolver.EXPECT().Resolve(*input).Return(domain.ResolvedConfig{}, domain.FieldError(domain.ErrDuplicatePlugin, "plugins[1].id"))

	_, err := f.app.Resolve(context.Background(), app.ResolveOptions{ConfigPath: f.config})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicatePlugin)
}

func TestApp_Resolve_LoadError(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load(f.config).Return(nil, os.ErrNotExist)

	_, err := f.app.Resolve(context.Background(), app.ResolveOptions{ConfigPath: f.config})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Resolve_DiscoveryError(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Discover(f.dir).Return("", domain.ErrConfigNotFound)

	_, err := f.app.Resolve(context.Background(), app.ResolveOptions{})
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Resolve_WriteError(t *testing.T) {
	f := newFixture(t)

	f.expectResolution("abc")
	f.store.EXPECT().Get(f.config).Return(nil, nil)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any()).Return(os.ErrPermission)

	_, err := f.app.Resolve(context.Background(), app.ResolveOptions{ConfigPath: f.config})
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestApp_Validate(t *testing.T) {
	f := newFixture(t)

	good := filepath.Join(f.dir, "good.yaml")
	bad := filepath.Join(f.dir, "bad.yaml")
	goodInput := &domain.ConfigInput{Version: "good"}
	badInput := &domain.ConfigInput{Version: "bad"}
	cfg := resolvedConfig()

	f.loader.EXPECT().Load(good).Return(goodInput, nil)
	f.loader.EXPECT().Load(bad).Return(badInput, nil)
	f.resolver.EXPECT().Resolve(*goodInput).Return(cfg, nil)
	f.resolver.EXPECT().Resolve(*badInput).Return(domain.ResolvedConfig{}, domain.FieldError(domain.ErrUnknownSigningIdentity, "variants[0].signingRef"))
	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("abc", nil)

	results, err := f.app.Validate(context.Background(), []string{good, bad})
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	require.Len(t, results, 2)

	assert.Equal(t, good, results[0].Path)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "abc", results[0].Fingerprint)

	assert.Equal(t, bad, results[1].Path)
	assert.ErrorIs(t, results[1].Err, domain.ErrUnknownSigningIdentity)
}

func TestApp_Validate_Discovered(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Discover(f.dir).Return(f.config, nil)
	f.expectResolution("abc")

	results, err := f.app.Validate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, f.config, results[0].Path)
}

func TestApp_Validate_Cancelled(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.app.Validate(ctx, []string{f.config})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, domain.DefaultOutputFile)

	gomock.InOrder(
		f.hasher.EXPECT().HashFile(f.config).Return("h1", nil),
		f.hasher.EXPECT().HashFile(f.config).Return("h1", nil),
		f.hasher.EXPECT().HashFile(f.config).Return("h2", nil),
	)

	// Initial resolution and the one triggered by the content change.
	f.expectResolution("fp1")
	f.expectResolution("fp2")
	f.store.EXPECT().Get(f.config).Return(nil, nil).Times(2)
	f.writer.EXPECT().Write(gomock.Any(), output, domain.FormatYAML).Return(nil).Times(2)
	f.store.EXPECT().Put(gomock.Any()).Return(nil).Times(2)

	f.watcher.EXPECT().Watch(gomock.Any(), f.config, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, onChange func()) error {
			onChange() // unchanged contents, skipped
			onChange() // changed contents, re-resolved
			return nil
		})

	require.NoError(t, f.app.Watch(context.Background(), app.ResolveOptions{ConfigPath: f.config}))
}

func TestApp_Watch_KeepsGoingAfterFailure(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.hasher.EXPECT().HashFile(f.config).Return("h1", nil),
		f.hasher.EXPECT().HashFile(f.config).Return("", os.ErrNotExist),
	)

	input := &domain.ConfigInput{}
	f.loader.EXPECT().Load(f.config).Return(input, nil)
	f.resolver.EXPECT().Resolve(*input).Return(domain.ResolvedConfig{}, domain.FieldError(domain.ErrMissingRequiredField, "application.id"))

	f.watcher.EXPECT().Watch(gomock.Any(), f.config, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, onChange func()) error {
			onChange()
			return nil
		})

	require.NoError(t, f.app.Watch(context.Background(), app.ResolveOptions{ConfigPath: f.config}))
}

func TestApp_Watch_WatcherError(t *testing.T) {
	f := newFixture(t)

	f.hasher.EXPECT().HashFile(f.config).Return("h1", nil)
	f.expectResolution("fp1")
	f.store.EXPECT().Get(f.config).Return(nil, nil)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().Put(gomock.Any()).Return(nil)
	f.watcher.EXPECT().Watch(gomock.Any(), f.config, gomock.Any()).Return(errors.New("too many open files"))

	err := f.app.Watch(context.Background(), app.ResolveOptions{ConfigPath: f.config})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch configuration")
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)

	buildDir := filepath.Join(f.dir, "build")
	rigDir := domain.RigPathFor(f.config)
	require.NoError(t, os.MkdirAll(filepath.Join(buildDir, "app"), domain.DirPerm))
	require.NoError(t, os.MkdirAll(filepath.Join(rigDir, domain.StoreDirName), domain.DirPerm))

	f.expectResolution("abc")

	require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{ConfigPath: f.config}))
	assert.NoDirExists(t, buildDir)
	assert.NoDirExists(t, rigDir)
}

func TestApp_Clean_SiblingBuildDir(t *testing.T) {
	f := newFixture(t)

	// Flutter layout: android/rig.yaml with build output in ../build.
	androidDir := filepath.Join(f.dir, "android")
	require.NoError(t, os.MkdirAll(androidDir, domain.DirPerm))
	configPath := filepath.Join(androidDir, domain.ConfigFileName)
	buildDir := filepath.Join(f.dir, "build")
	require.NoError(t, os.MkdirAll(buildDir, domain.DirPerm))

	input := &domain.ConfigInput{}
	cfg := resolvedConfig()
	cfg.Layout.BuildDir = "../build"
	f.loader.EXPECT().Load(configPath).Return(input, nil)
	f.resolver.EXPECT().Resolve(*input).Return(cfg, nil)
	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("abc", nil)

	require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{ConfigPath: configPath}))
	assert.NoDirExists(t, buildDir)
	assert.DirExists(t, androidDir)
}

func TestApp_Clean_RefusesAncestor(t *testing.T) {
	for _, dir := range []string{".", "..", "./"} {
		t.Run(dir, func(t *testing.T) {
			f := newFixture(t)

			rigDir := domain.RigPathFor(f.config)
			require.NoError(t, os.MkdirAll(rigDir, domain.DirPerm))

			input := &domain.ConfigInput{}
			cfg := resolvedConfig()
			cfg.Layout.BuildDir = dir
			f.loader.EXPECT().Load(f.config).Return(input, nil)
			f.resolver.EXPECT().Resolve(*input).Return(cfg, nil)
			f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("abc", nil)

			err := f.app.Clean(context.Background(), app.CleanOptions{ConfigPath: f.config})
			require.ErrorIs(t, err, domain.ErrUnsafeBuildDir)
			assert.DirExists(t, f.dir)
			assert.NoDirExists(t, rigDir)
		})
	}
}

func TestApp_Clean_AbsoluteBuildDir(t *testing.T) {
	f := newFixture(t)

	androidDir := filepath.Join(f.dir, "android")
	require.NoError(t, os.MkdirAll(androidDir, domain.DirPerm))
	configPath := filepath.Join(androidDir, domain.ConfigFileName)

	tests := []struct {
		name     string
		buildDir string
		wantErr  bool
	}{
		{name: "inside project root", buildDir: filepath.Join(f.dir, "build")},
		{name: "outside project root", buildDir: t.TempDir(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, os.MkdirAll(tt.buildDir, domain.DirPerm))

			input := &domain.ConfigInput{}
			cfg := resolvedConfig()
			cfg.Layout.BuildDir = filepath.ToSlash(tt.buildDir)
			f.loader.EXPECT().Load(configPath).Return(input, nil)
			f.resolver.EXPECT().Resolve(*input).Return(cfg, nil)
			f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("abc", nil)

			err := f.app.Clean(context.Background(), app.CleanOptions{ConfigPath: configPath})
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnsafeBuildDir)
				assert.DirExists(t, tt.buildDir)
				return
			}
			require.NoError(t, err)
			assert.NoDirExists(t, tt.buildDir)
		})
	}
}

func TestApp_Clean_InvalidConfig(t *testing.T) {
	f := newFixture(t)

	rigDir := domain.RigPathFor(f.config)
	require.NoError(t, os.MkdirAll(rigDir, domain.DirPerm))
	f.loader.EXPECT().Load(f.config).Return(nil, errors.New("yaml: line 1: did not find expected node content"))

	require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{ConfigPath: f.config}))
	assert.NoDirExists(t, rigDir)
}
