package constants

// Graph API surface
const (
	SupportedAPIVersion = "v23.0"
	MessagingProduct    = "whatsapp"
)

// Default server configuration values
const (
	DefaultHost                  = "127.0.0.1"
	DefaultServerPort            = 4004
	DefaultResponseDelayMs       = 0
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
)

// Default webhook configuration values
const (
	DefaultWebhookTimeoutMs = 5000
	WebhookSignatureHeader  = "X-Hub-Signature-256"
)

// Media store limits
const (
	MaxMediaSizeBytes = 5 * 1024 * 1024
	MediaTTLDays      = 30
)

// Manifest persistence
const (
	ManifestFileName     = "media-manifest.json"
	ManifestVersion      = "1.0"
	ManifestDirPerm      = 0o750
	ManifestFilePerm     = 0o644
	MaxManifestSizeBytes = 10 * 1024 * 1024
)

// Display phone number derivation: literal prefix plus the last digits of
// the business phone number ID.
const (
	DisplayNumberPrefix = "1555"
	DisplayNumberDigits = 7
)
