package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRouteURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{name: "http", uri: "http://localhost:8081", wantErr: false},
		{name: "https with path", uri: "https://example.org/api", wantErr: false},
		{name: "load balanced", uri: "lb://orders-service", wantErr: false},
		{name: "forward", uri: "forward:/fallback", wantErr: false},
		{name: "empty", uri: "", wantErr: true},
		{name: "blank", uri: "   ", wantErr: true},
		{name: "no scheme", uri: "localhost/path", wantErr: true},
		{name: "unparsable", uri: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateRouteURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{name: "min", port: 1, wantErr: false},
		{name: "common", port: 8080, wantErr: false},
		{name: "max", port: 65535, wantErr: false},
		{name: "zero", port: 0, wantErr: true},
		{name: "negative", port: -1, wantErr: true},
		{name: "too large", port: 65536, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePort(tt.port)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNonEmpty(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateNonEmpty("value", "id"))

	err := ValidateNonEmpty("  ", "id")
	assert.EqualError(t, err, "id cannot be empty")
}
