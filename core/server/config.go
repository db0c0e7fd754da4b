package server

import "strconv"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the size of uploaded artifacts.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
}

const defaultBodyLimitMB = 64

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// IsValidPort checks if the configured port is a usable TCP port.
func (c Config) IsValidPort() bool {
	port, err := strconv.Atoi(c.Port)
	return err == nil && port > 0 && port < 65536
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return defaultBodyLimitMB * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}
