package models

// ConfigError represents a configuration validation failure.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

// Config is the normalized runtime configuration. It is built once at
// startup and treated as immutable afterwards; nothing mutates it past
// config.LoadConfig.
type Config struct {
	// PhoneNumberID is the business phone number identity, digits only
	// (leading "+" stripped during normalization).
	PhoneNumberID string `json:"phoneNumberId"`

	// DisplayPhoneNumber is what webhook metadata reports. Derived from
	// PhoneNumberID unless set explicitly.
	DisplayPhoneNumber string `json:"displayPhoneNumber,omitempty"`

	Host            string `json:"host,omitempty"`
	Port            int    `json:"port,omitempty"`
	ResponseDelayMs int    `json:"responseDelayMs,omitempty"`
	LogLevel        string `json:"logLevel,omitempty"`

	Webhook     *WebhookConfig    `json:"webhook,omitempty"`
	Persistence PersistenceConfig `json:"persistence,omitempty"`
	Tracing     TracingConfig     `json:"tracing,omitempty"`
}

// WebhookConfig describes the callback target the emulator delivers
// simulated vendor events to. Optional; without it dispatch is disabled.
type WebhookConfig struct {
	URL       string `json:"url"`
	Secret    string `json:"secret,omitempty"`
	TimeoutMs int    `json:"timeoutMs,omitempty"`
}

// PersistenceConfig controls the media manifest import/export lifecycle.
type PersistenceConfig struct {
	ImportPath   string `json:"importPath,omitempty"`
	ExportPath   string `json:"exportPath,omitempty"`
	ExportOnExit bool   `json:"exportOnExit,omitempty"`
}

// TracingConfig mirrors the OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool    `json:"enabled,omitempty"`
	ServiceName  string  `json:"serviceName,omitempty"`
	Environment  string  `json:"environment,omitempty"`
	OTLPEndpoint string  `json:"otlpEndpoint,omitempty"`
	SampleRate   float64 `json:"sampleRate,omitempty"`
	UseStdout    bool    `json:"useStdout,omitempty"`
}
