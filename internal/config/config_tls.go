package config

import "fmt"

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	if err := validateTLSMode(tls); err != nil {
		return err
	}

	return validateTLSVersion(tls)
}

func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		return firstError(
			validateCertAndKey(tls, "server mode"),
			validateSingleSource("cert", tls.CertFile, tls.CertContent),
			validateSingleSource("key", tls.KeyFile, tls.KeyContent),
		)
	case "mutual":
		return firstError(
			validateCertAndKey(tls, "mutual mode"),
			validateCARequired(tls),
			validateSingleSource("cert", tls.CertFile, tls.CertContent),
			validateSingleSource("key", tls.KeyFile, tls.KeyContent),
			validateSingleSource("ca", tls.CAFile, tls.CAContent),
			validateClientAuthPolicy(tls),
		)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
}

func validateCertAndKey(tls TLSConfig, mode string) error {
	if (tls.CertFile == "" && tls.CertContent == "") || (tls.KeyFile == "" && tls.KeyContent == "") {
		return fmt.Errorf("TLS certificate and key are required for %s (provide either files or content)", mode)
	}
	return nil
}

func validateCARequired(tls TLSConfig) error {
	if tls.CAFile == "" && tls.CAContent == "" {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	return nil
}

// validateSingleSource rejects a PEM given both as a file and as content
func validateSingleSource(name, file, content string) error {
	if file != "" && content != "" {
		return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", name, name)
	}
	return nil
}

func validateClientAuthPolicy(tls TLSConfig) error {
	switch tls.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
	}
}

func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
