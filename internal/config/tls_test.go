package config

import (
	"encoding/base64"
	"testing"
)

func TestTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     HTTPClientConfig
		wantNil bool
		wantErr bool
	}{
		{
			name:    "plain http has no tls",
			cfg:     HTTPClientConfig{Scheme: "http"},
			wantNil: true,
		},
		{
			name: "https without CA uses system roots",
			cfg:  HTTPClientConfig{Scheme: "https"},
		},
		{
			name:    "invalid base64",
			cfg:     HTTPClientConfig{Scheme: "https", CACert: "%%%"},
			wantErr: true,
		},
		{
			name:    "base64 without certificates",
			cfg:     HTTPClientConfig{Scheme: "https", CACert: base64.StdEncoding.EncodeToString([]byte("not a pem"))},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.TLSConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("TLSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("TLSConfig() = %v, wantNil %v", got, tt.wantNil)
			}
		})
	}
}

func TestADDR(t *testing.T) {
	cfg := HTTPClientConfig{Scheme: "http", Host: "localhost", Port: 8000}
	if got := cfg.ADDR(); got != "http://localhost:8000" {
		t.Errorf("ADDR() = %q, want %q", got, "http://localhost:8000")
	}
}
