package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxyType_Validate(t *testing.T) {
	tests := []struct {
		name        string
		proxyType   ProxyType
		expectError bool
	}{
		{name: "Valid_SOCKS5", proxyType: ProxyTypeSOCKS5},
		{name: "Valid_SOCKS4", proxyType: ProxyTypeSOCKS4},
		{name: "Valid_HTTP", proxyType: ProxyTypeHTTP},
		{name: "Valid_HTTPS", proxyType: ProxyTypeHTTPS},
		{name: "Valid_Direct", proxyType: ProxyTypeDirect},
		{name: "Invalid_Unknown", proxyType: ProxyType("quic"), expectError: true},
		{name: "Invalid_Empty", proxyType: ProxyType(""), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.proxyType.Validate()
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidProxyType)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProxyType_SupportsAuth(t *testing.T) {
	assert.True(t, ProxyTypeSOCKS5.SupportsAuth())
	assert.False(t, ProxyTypeSOCKS4.SupportsAuth())
	assert.False(t, ProxyTypeHTTP.SupportsAuth())
	assert.False(t, ProxyTypeHTTPS.SupportsAuth())
	assert.False(t, ProxyTypeDirect.SupportsAuth())
}

func TestProxyDescriptor_WithCredentials(t *testing.T) {
	original := ProxyDescriptor{
		Type:     ProxyTypeSOCKS5,
		Host:     "127.0.0.1",
		Port:     9150,
		Username: "old",
		Password: "old",
		Flags:    1,
	}

	updated := original.WithCredentials(Credentials{Username: "example.com:0", Password: "p"})

	assert.Equal(t, "example.com:0", updated.Username)
	assert.Equal(t, "p", updated.Password)
	assert.Equal(t, original.Type, updated.Type)
	assert.Equal(t, original.Host, updated.Host)
	assert.Equal(t, original.Port, updated.Port)
	assert.Equal(t, original.Flags, updated.Flags)

	// The receiver is a value, the original must be untouched.
	assert.Equal(t, "old", original.Username)
	assert.Equal(t, "old", original.Password)
}

func TestProxyDescriptor_Address(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9150", ProxyDescriptor{Host: "127.0.0.1", Port: 9150}.Address())
	assert.Equal(t, "[::1]:9050", ProxyDescriptor{Host: "::1", Port: 9050}.Address())
}
