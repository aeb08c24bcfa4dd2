package config

import "time"

// Default values applied to any field left unset by the config file and
// environment. Endpoint URLs point at the production OPS 3.2 services.
const (
	DefaultOPSBaseURL      = "https://ops.epo.org/3.2"
	DefaultRegisterBaseURL = "https://register.epo.org/api"

	DefaultRequestTimeout  = 15 * time.Second
	DefaultCallDelay       = 2 * time.Second
	DefaultWindowDelay     = 6 * time.Second
	DefaultRetryAfterLimit = 30 * time.Second

	DefaultYear        = 2024
	DefaultRecordLimit = 10
	DefaultWindowSize  = 10

	DefaultMetricsListenAddr = "localhost:9095"
)

// ApplyDefaults fills every zero-valued field of cfg with the platform
// default. It never overrides a value that was explicitly set.
func ApplyDefaults(cfg *Config) {
	if cfg.OPS.BaseURL == "" {
		cfg.OPS.BaseURL = DefaultOPSBaseURL
	}
	if cfg.OPS.RegisterBaseURL == "" {
		cfg.OPS.RegisterBaseURL = DefaultRegisterBaseURL
	}
	if cfg.OPS.RequestTimeout == 0 {
		cfg.OPS.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.OPS.CallDelay == 0 {
		cfg.OPS.CallDelay = DefaultCallDelay
	}
	if cfg.OPS.WindowDelay == 0 {
		cfg.OPS.WindowDelay = DefaultWindowDelay
	}
	if cfg.OPS.RetryAfterLimit == 0 {
		cfg.OPS.RetryAfterLimit = DefaultRetryAfterLimit
	}

	if cfg.Extraction.Year == 0 {
		cfg.Extraction.Year = DefaultYear
	}
	if cfg.Extraction.RecordLimit == 0 {
		cfg.Extraction.RecordLimit = DefaultRecordLimit
	}
	if cfg.Extraction.WindowSize == 0 {
		cfg.Extraction.WindowSize = DefaultWindowSize
	}

	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = DefaultMetricsListenAddr
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
}
