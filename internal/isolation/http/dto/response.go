package dto

import (
	"github.com/allisson/isolator/internal/isolation/domain"
)

// StatusResponse represents the isolation engine state in API responses.
type StatusResponse struct {
	Enabled               bool    `json:"enabled"`
	SessionID             string  `json:"session_id"`
	Domains               int     `json:"domains"`
	Containers            int     `json:"containers"`
	CatchAllAgeSeconds    float64 `json:"catch_all_age_seconds"`
	CatchAllMaxAgeSeconds float64 `json:"catch_all_max_age_seconds"`
}

// MapStatusToResponse converts a domain status snapshot to an API response.
func MapStatusToResponse(status domain.Status) StatusResponse {
	return StatusResponse{
		Enabled:               status.Enabled,
		SessionID:             status.SessionID.String(),
		Domains:               status.Domains,
		Containers:            status.Containers,
		CatchAllAgeSeconds:    status.CatchAllAge.Seconds(),
		CatchAllMaxAgeSeconds: status.CatchAllMaxAge.Seconds(),
	}
}

// CredentialsResponse represents the current SOCKS credentials of a (domain, container) pair.
type CredentialsResponse struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Fingerprint string `json:"fingerprint"`
}

// MapCredentialsToResponse converts domain credentials to an API response.
func MapCredentialsToResponse(creds domain.Credentials) CredentialsResponse {
	return CredentialsResponse{
		Username:    creds.Username,
		Password:    creds.Password,
		Fingerprint: creds.Fingerprint(),
	}
}

// ProxyResponse describes a proxy in API responses. The password is never echoed; the
// fingerprint identifies the circuit instead.
type ProxyResponse struct {
	Type        string `json:"type"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Flags       uint32 `json:"flags,omitempty"`
}

// ResolveResponse represents the proxy a request would be routed through. Pending means the
// request would be isolated but its credentials are created by the first real connection.
type ResolveResponse struct {
	Proxy       ProxyResponse `json:"proxy"`
	Outcome     string        `json:"outcome"`
	Pending     bool          `json:"pending"`
	RotationDue bool          `json:"rotation_due"`
}

// MapResolveToResponse converts a resolution to an API response.
func MapResolveToResponse(res domain.Resolution) ResolveResponse {
	proxy := res.Proxy
	return ResolveResponse{
		Proxy: ProxyResponse{
			Type:        proxy.Type.String(),
			Host:        proxy.Host,
			Port:        proxy.Port,
			Username:    proxy.Username,
			Fingerprint: proxy.Credentials().Fingerprint(),
			Flags:       proxy.Flags,
		},
		Outcome:     res.Outcome.String(),
		Pending:     res.Pending,
		RotationDue: res.RotationDue,
	}
}
