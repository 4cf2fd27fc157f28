package config

import (
	"fmt"
	"strings"
)

// CORSConfig lists the browser origins allowed to call the HTTP API.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowedorigins"`
}

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// String returns a string representation of the CORS configuration.
func (c *CORSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- CORS ---\n")
	b.WriteString(fmt.Sprintf("  allowedorigins: %s\n", strings.Join(c.AllowedOrigins, ",")))
	return b.String()
}

func (c *CORSConfig) Validate() error {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = append([]string(nil), defaultAllowedOrigins...)
	}
	for _, origin := range c.AllowedOrigins {
		if origin == "" {
			return fmt.Errorf("CORS allowed origin cannot be empty")
		}
	}
	return nil
}
