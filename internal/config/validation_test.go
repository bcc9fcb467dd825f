package config

import (
	"errors"
	"testing"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxContextQueries:   DefaultMaxContextQueries,
		RecencyWindowDays:   DefaultRecencyWindowDays,
		HistoryFetchLimit:   DefaultHistoryFetchLimit,
		PostgresHost:        "localhost",
		PostgresPort:        5432,
		PostgresUser:        "aura",
		PostgresPassword:    "secret",
		PostgresDBName:      "aura",
		PostgresSSLMode:     "disable",
		ListenAddr:          "localhost:8080",
	}
}

func TestValidate_Defaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on valid config: %v", err)
	}
}

func TestValidate_Nil(t *testing.T) {
	var c *Config
	if err := c.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() on nil = %v, want ErrConfigNil", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "threshold too low",
			mutate:  func(c *Config) { c.SimilarityThreshold = -0.1 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "threshold too high",
			mutate:  func(c *Config) { c.SimilarityThreshold = 1.5 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "zero max context",
			mutate:  func(c *Config) { c.MaxContextQueries = 0 },
			wantErr: ErrInvalidMaxContext,
		},
		{
			name:    "negative recency window",
			mutate:  func(c *Config) { c.RecencyWindowDays = -1 },
			wantErr: ErrInvalidRecencyWindow,
		},
		{
			name:    "fetch limit smaller than selection",
			mutate:  func(c *Config) { c.HistoryFetchLimit = 2 },
			wantErr: ErrInvalidFetchLimit,
		},
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.PostgresHost = "  " },
			wantErr: ErrInvalidPostgresHost,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.PostgresPort = 70000 },
			wantErr: ErrInvalidPostgresPort,
		},
		{
			name:    "empty db name",
			mutate:  func(c *Config) { c.PostgresDBName = "" },
			wantErr: ErrInvalidPostgresDBName,
		},
		{
			name:    "bad ssl mode",
			mutate:  func(c *Config) { c.PostgresSSLMode = "yes" },
			wantErr: ErrInvalidPostgresSSLMode,
		},
		{
			name:    "bad listen addr",
			mutate:  func(c *Config) { c.ListenAddr = "no-port" },
			wantErr: ErrInvalidListenAddr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
