package domain

import (
	"net"
	"strconv"
)

// ProxyType identifies the proxy protocol of a ProxyDescriptor.
type ProxyType string

const (
	// ProxyTypeSOCKS5 is SOCKS5, the only type that carries isolation credentials.
	ProxyTypeSOCKS5 ProxyType = "socks"
	// ProxyTypeSOCKS4 is SOCKS4, which has no password field.
	ProxyTypeSOCKS4 ProxyType = "socks4"
	// ProxyTypeHTTP is a plain HTTP CONNECT proxy.
	ProxyTypeHTTP ProxyType = "http"
	// ProxyTypeHTTPS is an HTTP CONNECT proxy reached over TLS.
	ProxyTypeHTTPS ProxyType = "https"
	// ProxyTypeDirect means no proxy.
	ProxyTypeDirect ProxyType = "direct"
)

// Validate checks if the proxy type is known.
func (p ProxyType) Validate() error {
	switch p {
	case ProxyTypeSOCKS5, ProxyTypeSOCKS4, ProxyTypeHTTP, ProxyTypeHTTPS, ProxyTypeDirect:
		return nil
	default:
		return ErrInvalidProxyType
	}
}

// String returns the string representation of the proxy type.
func (p ProxyType) String() string {
	return string(p)
}

// SupportsAuth reports whether the proxy protocol carries a username/password pair that the
// proxy can use for stream isolation.
func (p ProxyType) SupportsAuth() bool {
	return p == ProxyTypeSOCKS5
}

// ProxyDescriptor is the routing information the network stack uses for one connection.
type ProxyDescriptor struct {
	Type     ProxyType
	Host     string
	Port     int
	Username string
	Password string
	// Flags are transport flags owned by the network stack (e.g. remote DNS). Passed through.
	Flags uint32
}

// Address returns host:port.
func (p ProxyDescriptor) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// WithCredentials returns a copy of p with the username and password replaced.
// Every other field is preserved.
func (p ProxyDescriptor) WithCredentials(c Credentials) ProxyDescriptor {
	p.Username = c.Username
	p.Password = c.Password
	return p
}

// Credentials returns the username/password pair currently carried by p.
func (p ProxyDescriptor) Credentials() Credentials {
	return Credentials{Username: p.Username, Password: p.Password}
}
