package domain

import "time"

// ResolutionRecord remembers the last resolution written for a configuration file.
type ResolutionRecord struct {
	ConfigPath  string    `json:"config_path,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	OutputPath  string    `json:"output_path,omitzero"`
	Format      Format    `json:"format,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
