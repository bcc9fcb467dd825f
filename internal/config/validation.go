package config

import (
	"fmt"
	"net"
	"strings"
)

// validSSLModes are the SSL modes accepted by the pgx driver.
var validSSLModes = map[string]struct{}{
	"disable":     {},
	"allow":       {},
	"prefer":      {},
	"require":     {},
	"verify-ca":   {},
	"verify-full": {},
}

// Validate checks the configuration for invalid values.
// Returns a sentinel error (wrapped with context) on the first failure so
// callers can use errors.Is for specific checks.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: must be in [0, 1], got %g", ErrInvalidThreshold, c.SimilarityThreshold)
	}

	if c.MaxContextQueries < 1 || c.MaxContextQueries > 50 {
		return fmt.Errorf("%w: must be in [1, 50], got %d", ErrInvalidMaxContext, c.MaxContextQueries)
	}

	if c.RecencyWindowDays < 1 || c.RecencyWindowDays > 3650 {
		return fmt.Errorf("%w: must be in [1, 3650] days, got %d", ErrInvalidRecencyWindow, c.RecencyWindowDays)
	}

	if c.HistoryFetchLimit < c.MaxContextQueries || c.HistoryFetchLimit > 1000 {
		return fmt.Errorf("%w: must be in [%d, 1000], got %d",
			ErrInvalidFetchLimit, c.MaxContextQueries, c.HistoryFetchLimit)
	}

	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidPostgresHost)
	}

	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be in [1, 65535], got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}

	if strings.TrimSpace(c.PostgresDBName) == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidPostgresDBName)
	}

	if _, ok := validSSLModes[c.PostgresSSLMode]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPostgresSSLMode, c.PostgresSSLMode)
	}

	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidListenAddr, c.ListenAddr, err)
		}
	}

	return nil
}
