package util

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateRouteURI validates the target URI of a route definition.
// Any scheme is accepted (http, https, ws, lb, forward, ...) but one must
// be present.
func ValidateRouteURI(rawURI string) error {
	if strings.TrimSpace(rawURI) == "" {
		return fmt.Errorf("URI cannot be empty")
	}

	parsed, err := url.Parse(rawURI)
	if err != nil {
		return fmt.Errorf("invalid URI: %w", err)
	}

	if parsed.Scheme == "" {
		return fmt.Errorf("URI must have a scheme, got: %s", rawURI)
	}

	return nil
}

// ValidatePort validates a port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", port)
	}
	return nil
}

// ValidateNonEmpty validates that a string is not empty.
func ValidateNonEmpty(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}
