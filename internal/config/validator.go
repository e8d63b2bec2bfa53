package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags on cfg and reports every failing field
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%s: %s", ErrMsgInvalidConfig, strings.Join(msgs, "; "))
}

// Warnings lists settings that work but are risky outside development
func (c *Config) Warnings() []string {
	if c.Environment == "dev" || c.Environment == "test" {
		return nil
	}
	var warnings []string
	if c.Store == StorePostgres && c.DBPassword == "postgres" {
		warnings = append(warnings, WarnMsgDefaultDBPass)
	}
	for _, o := range c.CORSAllowedOrigins {
		if o == "*" {
			warnings = append(warnings, WarnMsgOpenCORS)
			break
		}
	}
	if c.DiscordEnabled() && c.DiscordChannelID == "" {
		warnings = append(warnings, WarnMsgNoAnnounce)
	}
	return warnings
}
