// Package fs implements filesystem-backed hashing of configuration.
package fs

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints resolved configuration and configuration files with XXHash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile computes the XXHash of a file's content.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// Fingerprint computes a single hash representing every field of cfg.
// Collections are hashed in the order the resolver emits them, which is canonical.
func (h *Hasher) Fingerprint(cfg *domain.ResolvedConfig) (string, error) {
	if cfg == nil {
		return "", zerr.New("cannot fingerprint nil configuration")
	}

	d := digest{xxhash.New()}

	d.field(cfg.Version)
	d.end()

	d.field(cfg.Application.ID)
	d.field(cfg.Application.Namespace)
	d.int(cfg.Application.VersionCode)
	d.field(cfg.Application.VersionName)
	d.end()

	d.int(cfg.SDK.CompileSDK)
	d.int(cfg.SDK.TargetSDK)
	d.int(cfg.SDK.MinSDK)
	d.field(cfg.SDK.NDKVersion)
	d.field(cfg.SDK.JavaVersion)
	d.end()

	for _, p := range cfg.Plugins {
		d.field(p.ID)
		d.field(p.Version)
	}
	d.end()

	for _, p := range cfg.Platforms {
		d.field(p.Coordinate)
		d.field(p.Version)
	}
	d.end()

	for _, dep := range cfg.Dependencies {
		d.field(dep.Coordinate)
		d.field(dep.Version)
		d.field(dep.ManagedBy)
	}
	d.end()

	for _, s := range cfg.SigningIdentities {
		d.field(s.Name)
		d.field(s.StoreFile)
		d.field(s.KeyAlias)
	}
	d.end()

	for _, v := range cfg.Variants {
		d.field(v.Name)
		d.field(v.SigningRef)
	}
	d.end()

	for _, r := range cfg.Repositories {
		d.field(r)
	}
	d.end()

	for _, p := range cfg.Projects {
		d.field(p.Name)
		for _, dep := range p.EvaluationDependsOn {
			d.field(dep)
		}
		d.end()
		d.field(p.BuildDir)
	}
	d.end()

	d.field(cfg.Layout.BuildDir)
	d.field(cfg.Flutter.Source)

	return fmt.Sprintf("%016x", d.Sum64()), nil
}

// digest writes NUL-separated fields so that adjacent values cannot collide.
type digest struct {
	*xxhash.Digest
}

func (d digest) field(s string) {
	_, _ = d.WriteString(s)
	_, _ = d.Write([]byte{0})
}

func (d digest) int(n int) {
	d.field(strconv.Itoa(n))
}

// end marks a section boundary.
func (d digest) end() {
	_, _ = d.Write([]byte{1})
}
