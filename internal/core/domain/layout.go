package domain

import "path/filepath"

const (
	// RigDirName is the name of the metadata directory rig keeps next to the configuration.
	RigDirName = ".rig"

	// StoreDirName is the name of the resolution store directory.
	StoreDirName = "store"

	// StoreFileName is the name of the resolution store file.
	StoreFileName = "resolutions.json"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "rig.yaml"

	// DefaultOutputFile is where resolved configuration is written unless overridden.
	DefaultOutputFile = "rig.resolved.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultRigPath returns the default root directory for rig metadata.
func DefaultRigPath() string {
	return RigDirName
}

// DefaultStorePath returns the default path of the resolution store file.
// It joins .rig, store, and resolutions.json.
func DefaultStorePath() string {
	return filepath.Join(RigDirName, StoreDirName, StoreFileName)
}

// RigPathFor returns the metadata directory that belongs to the configuration file at configPath.
func RigPathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), DefaultRigPath())
}

// StorePathFor returns the resolution store file that belongs to the configuration file at configPath.
func StorePathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), DefaultStorePath())
}

// ProjectBuildDir returns the relocated build directory of a project.
func ProjectBuildDir(buildDir, project string) string {
	return filepath.ToSlash(filepath.Join(buildDir, project))
}
