package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{URL: "ws://localhost:8000/rpc", Namespace: "amorph", Database: "species"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"http url", func(c *Config) { c.URL = "http://localhost:8000" }, "want ws:// or wss://"},
		{"missing namespace", func(c *Config) { c.Namespace = "" }, "namespace and database are required"},
		{"unknown auth level", func(c *Config) { c.AuthLevel = "scope" }, `auth level "scope"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	cfg := valid
	cfg.AuthLevel = AuthDatabase
	cfg.URL = "wss://db.example.org"
	assert.NoError(t, cfg.Validate())
}
