package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citegraph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConversionBackend identifies the PDF-to-text conversion mechanism.
type ConversionBackend string

const (
	// BackendService posts the PDF to a hosted conversion endpoint.
	BackendService ConversionBackend = "service"

	// BackendContainer pipes the PDF through a local container image.
	BackendContainer ConversionBackend = "container"

	// BackendNone disables external conversion; only the heuristic
	// scanner runs.
	BackendNone ConversionBackend = "none"
)

// ConversionConfig holds settings for the external text-conversion tier.
type ConversionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the conversion mechanism: service, container, or none.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// ServiceURL is the hosted conversion endpoint (service backend).
	ServiceURL string `json:"service_url" yaml:"service_url"`

	// APIKey authenticates against the conversion endpoint (optional).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MinChars is the minimum converted-text length considered usable;
	// shorter results trigger the heuristic-scanner fallback (default 50).
	MinChars int `json:"min_chars" yaml:"min_chars"`

	// RequestsPerSecond rate-limits calls to the conversion endpoint
	// (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// AcquisitionConfig holds settings for the text-acquisition stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// MinTextLen is the minimum usable document-text length. Caller text
	// shorter than this is ignored; acquired text shorter than this is
	// reported as insufficient (default 10).
	MinTextLen int `json:"min_text_len" yaml:"min_text_len"`
}

// StoreConfig holds settings for the persistent store.
type StoreConfig struct {
	// DBPath is the SQLite database file path.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition"`
	Conversion  ConversionConfig  `json:"conversion" yaml:"conversion"`
	Store       StoreConfig       `json:"store" yaml:"store"`
	Server      ServerConfig      `json:"server" yaml:"server"`
}
