package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"wamock/internal/constants"
	"wamock/internal/models"
)

var (
	ErrMissingPhoneNumberID = models.ConfigError{Message: "missing business phone number ID"}
	ErrMissingWebhookURL    = models.ConfigError{Message: "webhook configured without a URL"}
)

// LoadConfig reads, validates and normalizes the runtime configuration.
// The returned config is immutable from here on.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&config)

	if err := Normalize(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Normalize validates raw options and fills in derived defaults. Exposed so
// tests and embedders can build configs without a file.
func Normalize(c *models.Config) error {
	c.PhoneNumberID = NormalizePhoneNumberID(c.PhoneNumberID)
	if c.PhoneNumberID == "" {
		return ErrMissingPhoneNumberID
	}
	for _, r := range c.PhoneNumberID {
		if !unicode.IsDigit(r) {
			return models.ConfigError{Message: fmt.Sprintf("phone number ID must contain only digits, got %q", c.PhoneNumberID)}
		}
	}

	if c.DisplayPhoneNumber == "" {
		c.DisplayPhoneNumber = DeriveDisplayNumber(c.PhoneNumberID)
	}
	if c.Host == "" {
		c.Host = constants.DefaultHost
	}
	if c.Port <= 0 {
		c.Port = constants.DefaultServerPort
	}
	if c.ResponseDelayMs < 0 {
		c.ResponseDelayMs = constants.DefaultResponseDelayMs
	}

	if c.Webhook != nil {
		if c.Webhook.URL == "" {
			return ErrMissingWebhookURL
		}
		if c.Webhook.TimeoutMs <= 0 {
			c.Webhook.TimeoutMs = constants.DefaultWebhookTimeoutMs
		}
	}

	return nil
}

// NormalizePhoneNumberID is the single canonical normalization used
// everywhere a phone identity is compared: trim whitespace, strip one
// leading "+".
func NormalizePhoneNumberID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "+")
}

// DeriveDisplayNumber builds the default display phone number: the literal
// "1555" prefix plus the last 7 digits of the identity.
func DeriveDisplayNumber(phoneNumberID string) string {
	digits := phoneNumberID
	if len(digits) > constants.DisplayNumberDigits {
		digits = digits[len(digits)-constants.DisplayNumberDigits:]
	}
	return constants.DisplayNumberPrefix + digits
}

func applyEnvironmentOverrides(c *models.Config) {
	if id := os.Getenv("WAMOCK_PHONE_NUMBER_ID"); id != "" {
		c.PhoneNumberID = id
	}

	// Webhook secrets should be set via environment variables
	if secret := os.Getenv("WAMOCK_WEBHOOK_SECRET"); secret != "" {
		if c.Webhook == nil {
			c.Webhook = &models.WebhookConfig{}
		}
		c.Webhook.Secret = secret
	}

	if url := os.Getenv("WAMOCK_WEBHOOK_URL"); url != "" {
		if c.Webhook == nil {
			c.Webhook = &models.WebhookConfig{}
		}
		c.Webhook.URL = url
	}
}
