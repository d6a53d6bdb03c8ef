package config

import "fmt"

// Payment gateway environments and the fixed base URL each one maps to.
const (
	PaymentEnvSandbox    = "sandbox"
	PaymentEnvProduction = "production"

	MpesaSandboxURL    = "https://sandbox.safaricom.co.ke"
	MpesaProductionURL = "https://api.safaricom.co.ke"
)

// PaymentConfig carries the M-Pesa credentials. The core never reads it; it
// is handed to the payment collaborator untouched.
type PaymentConfig struct {
	ConsumerKey    string `koanf:"consumer_key"`
	ConsumerSecret string `koanf:"consumer_secret"`
	Shortcode      string `koanf:"shortcode"`
	Passkey        string `koanf:"passkey"`
	Environment    string `koanf:"environment"`
}

// Validate rejects an unknown environment selector.
func (p PaymentConfig) Validate() error {
	switch p.Environment {
	case PaymentEnvSandbox, PaymentEnvProduction:
		return nil
	default:
		return fmt.Errorf("payment environment %q must be %q or %q", p.Environment, PaymentEnvSandbox, PaymentEnvProduction)
	}
}

// BaseURL maps the environment selector to its gateway URL.
func (p PaymentConfig) BaseURL() string {
	if p.Environment == PaymentEnvProduction {
		return MpesaProductionURL
	}
	return MpesaSandboxURL
}

// Configured reports whether every credential is present.
func (p PaymentConfig) Configured() bool {
	return p.ConsumerKey != "" && p.ConsumerSecret != "" && p.Shortcode != "" && p.Passkey != ""
}
