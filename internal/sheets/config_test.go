package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "Asia/Shanghai", c.TimeZone)
	assert.Equal(t, 1000, c.BatchSize)
	assert.Equal(t, 3, c.RetryAttempts)
	assert.True(t, c.EnableFormatting)
}

func TestConfig_Validate(t *testing.T) {
	withOAuth := func(mutate func(*Config)) Config {
		c := DefaultConfig()
		c.ClientID = "id"
		c.ClientSecret = "secret"
		c.RefreshToken = "token"
		if mutate != nil {
			mutate(&c)
		}
		return c
	}

	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "oauth credentials",
			config: withOAuth(nil),
		},
		{
			name: "service account",
			config: func() Config {
				c := DefaultConfig()
				c.ServiceAccountPath = "/path/to/key.json"
				return c
			}(),
		},
		{
			name:    "no authentication",
			config:  DefaultConfig(),
			wantErr: "no authentication method",
		},
		{
			name: "both methods",
			config: withOAuth(func(c *Config) {
				c.ServiceAccountPath = "/path/to/key.json"
			}),
			wantErr: "multiple authentication methods",
		},
		{
			name: "partial oauth is no auth",
			config: func() Config {
				c := DefaultConfig()
				c.ClientID = "id"
				return c
			}(),
			wantErr: "no authentication method",
		},
		{
			name: "zero batch size",
			config: withOAuth(func(c *Config) {
				c.BatchSize = 0
			}),
			wantErr: "batch size",
		},
		{
			name: "negative retry attempts",
			config: withOAuth(func(c *Config) {
				c.RetryAttempts = -1
			}),
			wantErr: "retry attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
