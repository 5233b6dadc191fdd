// Package app implements the application layer for rig.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// StdoutPath selects standard output as the resolution target.
const StdoutPath = "-"

// App represents the main application logic.
type App struct {
	loader    ports.ConfigLoader
	resolver  ports.ConfigResolver
	hasher    ports.Hasher
	store     ports.ResolutionStore
	writer    ports.ResolvedWriter
	watcher   ports.Watcher
	telemetry ports.Telemetry
	logger    ports.Logger
	now       func() time.Time
	getwd     func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.ConfigResolver,
	hasher ports.Hasher,
	store ports.ResolutionStore,
	writer ports.ResolvedWriter,
	watcher ports.Watcher,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		loader:    loader,
		resolver:  resolver,
		hasher:    hasher,
		store:     store,
		writer:    writer,
		watcher:   watcher,
		telemetry: telemetry,
		logger:    log,
		now:       time.Now,
		getwd:     os.Getwd,
	}
}

// WithClock overrides the clock used to timestamp resolution records.
// This is primarily used for testing.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// WithWorkingDir overrides the directory configuration discovery starts from.
// This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	// ConfigPath is the configuration file. Empty means discover from the working directory.
	ConfigPath string
	// OutputPath is where the snapshot is written. Empty means next to the configuration file.
	OutputPath string
	Format     domain.Format
	NoCache    bool
}

// ResolveResult describes a completed resolution.
type ResolveResult struct {
	ConfigPath  string
	OutputPath  string
	Fingerprint string
	// Cached is true when the output was already up to date and was not rewritten.
	Cached bool
	Config domain.ResolvedConfig
}

// Resolve loads, resolves and writes the configuration.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) (*ResolveResult, error) {
	configPath, err := a.locate(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = domain.FormatYAML
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(configPath), domain.OutputFileName(format))
	}
	if outputPath != StdoutPath {
		if outputPath, err = filepath.Abs(outputPath); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve output path"), "path", opts.OutputPath)
		}
	}

	cfg, fingerprint, err := a.resolveFile(ctx, configPath)
	if err != nil {
		return nil, err
	}

	result := &ResolveResult{
		ConfigPath:  configPath,
		OutputPath:  outputPath,
		Fingerprint: fingerprint,
		Config:      cfg,
	}

	_, vertex := a.telemetry.Record(ctx, "write")
	result.Cached, err = a.write(&cfg, configPath, outputPath, format, fingerprint, opts.NoCache, vertex)
	vertex.Complete(err)
	if err != nil {
		return nil, err
	}

	if result.Cached {
		a.logger.Info(fmt.Sprintf("%s is up to date", outputPath))
	} else if outputPath != StdoutPath {
		a.logger.Info(fmt.Sprintf("wrote %s", outputPath))
	}

	return result, nil
}

// resolveFile runs the load and resolve phases for a single configuration file.
func (a *App) resolveFile(ctx context.Context, configPath string) (domain.ResolvedConfig, string, error) {
	_, load := a.telemetry.Record(ctx, "load")
	_, _ = fmt.Fprintln(load.Stdout(), configPath)
	input, err := a.loader.Load(configPath)
	load.Complete(err)
	if err != nil {
		return domain.ResolvedConfig{}, "", zerr.Wrap(err, "failed to load configuration")
	}

	_, resolve := a.telemetry.Record(ctx, "resolve")
	cfg, err := a.resolver.Resolve(*input)
	if err != nil {
		resolve.Complete(err)
		return domain.ResolvedConfig{}, "", zerr.With(err, "config", configPath)
	}

	fingerprint, err := a.hasher.Fingerprint(&cfg)
	resolve.Complete(err)
	if err != nil {
		return domain.ResolvedConfig{}, "", zerr.Wrap(err, "failed to fingerprint configuration")
	}

	return cfg, fingerprint, nil
}

func (a *App) write(
	cfg *domain.ResolvedConfig,
	configPath, outputPath string,
	format domain.Format,
	fingerprint string,
	noCache bool,
	vertex ports.Vertex,
) (bool, error) {
	if outputPath == StdoutPath {
		return false, a.writer.Write(cfg, outputPath, format)
	}

	if !noCache {
		upToDate, err := a.upToDate(configPath, outputPath, format, fingerprint)
		if err != nil {
			return false, err
		}
		if upToDate {
			vertex.Cached()
			return true, nil
		}
	}

	if err := a.writer.Write(cfg, outputPath, format); err != nil {
		return false, zerr.Wrap(err, "failed to write resolved configuration")
	}

	record := domain.ResolutionRecord{
		ConfigPath:  configPath,
		Fingerprint: fingerprint,
		OutputPath:  outputPath,
		Format:      format,
		Timestamp:   a.now(),
	}
	if err := a.store.Put(record); err != nil {
		return false, zerr.Wrap(err, "failed to record resolution")
	}

	return false, nil
}

// upToDate reports whether the previous resolution produced the same output at the same place.
func (a *App) upToDate(configPath, outputPath string, format domain.Format, fingerprint string) (bool, error) {
	record, err := a.store.Get(configPath)
	if err != nil {
		return false, zerr.Wrap(err, "failed to read resolution store")
	}
	if record == nil {
		return false, nil
	}
	if record.Fingerprint != fingerprint || record.OutputPath != outputPath || record.Format != format {
		return false, nil
	}
	if _, err := os.Stat(outputPath); err != nil {
		return false, nil //nolint:nilerr // A missing output is simply stale.
	}
	return true, nil
}

// ValidationResult is the outcome of validating one configuration file.
type ValidationResult struct {
	Path        string
	Fingerprint string
	Err         error
}

// Validate resolves each configuration file without writing output.
// Files are validated concurrently. An empty paths slice validates the discovered configuration.
// The returned results are in the order of paths; the error is ErrValidationFailed if any file failed.
func (a *App) Validate(ctx context.Context, paths []string) ([]ValidationResult, error) {
	if len(paths) == 0 {
		path, err := a.locate("")
		if err != nil {
			return nil, err
		}
		paths = []string{path}
	}

	results := make([]ValidationResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, fingerprint, err := a.resolveFile(ctx, path)
			results[i] = ValidationResult{Path: path, Fingerprint: fingerprint, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Path)
		}
	}
	if len(failed) > 0 {
		return results, zerr.With(domain.FieldError(domain.ErrValidationFailed, "config"), "files", strings.Join(failed, ", "))
	}

	return results, nil
}

// Watch resolves the configuration and re-resolves it every time its contents change.
// Resolution failures are logged and do not stop the watch. Watch blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts ResolveOptions) error {
	configPath, err := a.locate(opts.ConfigPath)
	if err != nil {
		return err
	}
	opts.ConfigPath = configPath

	var (
		mu       sync.Mutex
		lastHash string
	)

	run := func() {
		hash, err := a.hasher.HashFile(configPath)
		if err != nil {
			a.logger.Error(err)
			return
		}

		mu.Lock()
		unchanged := hash == lastHash
		lastHash = hash
		mu.Unlock()
		if unchanged {
			return
		}

		if _, err := a.Resolve(ctx, opts); err != nil {
			a.logger.Error(err)
		}
	}

	run()
	a.logger.Info(fmt.Sprintf("watching %s", configPath))

	if err := a.watcher.Watch(ctx, configPath, run); err != nil {
		return zerr.Wrap(err, "failed to watch configuration")
	}
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
}

// Clean removes the resolved build directory and rig's metadata directory.
func (a *App) Clean(ctx context.Context, options CleanOptions) error {
	configPath, err := a.locate(options.ConfigPath)
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	cfg, _, err := a.resolveFile(ctx, configPath)
	if err != nil {
		// Without a valid configuration the build directory is unknown; metadata can still go.
		a.logger.Warn("configuration is invalid, skipping build directory")
		a.logger.Error(err)
	} else {
		buildDir, err := safeBuildDir(configDir, cfg.Layout.BuildDir)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			remove(buildDir, "build directory")
		}
	}

	remove(domain.RigPathFor(configPath), "rig metadata")

	return errs
}

// safeBuildDir resolves buildDir against configDir and rejects directories that contain configDir.
// Absolute directories must also lie within the parent of configDir.
func safeBuildDir(configDir, buildDir string) (string, error) {
	unsafe := func(target string) error {
		return zerr.With(domain.FieldError(domain.ErrUnsafeBuildDir, "layout.buildDir"), "path", target)
	}

	target := filepath.FromSlash(buildDir)
	if filepath.IsAbs(target) {
		if !within(filepath.Dir(configDir), target) {
			return "", unsafe(target)
		}
	} else {
		target = filepath.Join(configDir, target)
	}

	rel, err := filepath.Rel(target, configDir)
	if err != nil || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return "", unsafe(target)
	}
	return target, nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// locate returns the absolute configuration path, discovering it when path is empty.
func (a *App) locate(path string) (string, error) {
	if path == "" {
		cwd, err := a.getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to get working directory")
		}
		return a.loader.Discover(cwd)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve configuration path"), "path", path)
	}
	return abs, nil
}
