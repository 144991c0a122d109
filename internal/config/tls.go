package config

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
)

// TLSConfig returns nil when the backend is plain http.
func (c HTTPClientConfig) TLSConfig() (*tls.Config, error) {
	if c.Scheme != "https" {
		return nil, nil
	}

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.CACert == "" {
		return tlsCfg, nil
	}

	caCertData, err := base64.StdEncoding.DecodeString(c.CACert)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CA cert: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCertData) {
		return nil, fmt.Errorf("CA cert contains no PEM certificates")
	}
	tlsCfg.RootCAs = pool

	return tlsCfg, nil
}
