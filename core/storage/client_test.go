package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{"Bare host", "localhost:9000", "localhost:9000", false, false},
		{"Trailing slash", "minio.local/", "minio.local", false, false},
		{"HTTP scheme", "http://localhost:9000", "localhost:9000", false, false},
		{"HTTPS scheme", "https://s3.amazonaws.com", "s3.amazonaws.com", true, false},
		{"Unknown scheme", "ftp://files", "", false, true},
		{"Empty", "  ", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := parseEndpoint(tt.endpoint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSecure, secure)
		})
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{
		Endpoint:  "https://s3.amazonaws.com",
		AccessKey: "testkey",
		SecretKey: "testsecret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = NewClient(Config{})
	assert.Error(t, err)
}
