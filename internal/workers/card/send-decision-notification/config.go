// internal/workers/card/send-decision-notification/config.go
package senddecisionnotification

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	ApprovalOnly bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   false,
		ApprovalOnly: true,
	}
}
