package config

import "time"

var (
	ServiceVersion string
	CommitSHA      string
)

type (
	ServiceConfig struct {
		App        App        `json:"app"`
		Device     Device     `json:"device"`
		Controller Controller `json:"controller"`
		Breaker    Breaker    `json:"breaker"`
		Logging    Logging    `json:"logging"`
		Telemetry  Telemetry  `json:"telemetry"`
	}

	App struct {
		ServiceName    string `envconfig:"APP_SERVICE_NAME" default:"uvcctl" json:"service_name"`
		ServiceVersion string `json:"service_version,omitempty"`
		CommitSHA      string `json:"commit_sha,omitempty"`
	}

	// Device selects which camera the CLI operates on. A non-empty
	// name pattern wins over the index.
	Device struct {
		Index int    `envconfig:"UVC_DEVICE_INDEX" default:"0" json:"index"`
		Name  string `envconfig:"UVC_DEVICE_NAME" default:"" json:"name,omitempty"`
	}

	Controller struct {
		StrictValues bool          `envconfig:"UVC_STRICT_VALUES" default:"false" json:"strict_values"`
		StrictStep   bool          `envconfig:"UVC_STRICT_STEP" default:"false" json:"strict_step"`
		BusyRetries  uint          `envconfig:"UVC_BUSY_RETRIES" default:"3" json:"busy_retries"`
		BusyInterval time.Duration `envconfig:"UVC_BUSY_INTERVAL" default:"100ms" json:"busy_interval"`
		PresetsFile  string        `envconfig:"UVC_PRESETS_FILE" default:"" json:"presets_file,omitempty"`
	}

	Breaker struct {
		Enabled          bool          `envconfig:"UVC_BREAKER_ENABLED" default:"false" json:"enabled"`
		MaxRequests      uint          `envconfig:"UVC_BREAKER_MAX_REQUESTS" default:"1" json:"max_requests"`
		Timeout          time.Duration `envconfig:"UVC_BREAKER_TIMEOUT" default:"5s" json:"timeout"`
		FailureThreshold uint          `envconfig:"UVC_BREAKER_FAILURE_THRESHOLD" default:"5" json:"failure_threshold"`
	}

	Logging struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info" json:"level"`
		Format string `envconfig:"LOG_FORMAT" default:"json" json:"format"`
	}

	Telemetry struct {
		Enabled     bool   `envconfig:"OTEL_ENABLED" default:"false" json:"enabled"`
		ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"uvcctl" json:"service_name"`
	}
)
