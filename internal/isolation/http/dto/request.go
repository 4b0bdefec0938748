// Package dto provides data transfer objects for the isolation control API.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/isolator/internal/isolation/domain"
	customValidation "github.com/allisson/isolator/internal/validation"
)

// NewDomainCircuitRequest targets one first-party domain. An empty domain targets the
// catch-all identity.
type NewDomainCircuitRequest struct {
	Domain string `json:"domain"`
}

// Validate checks if the new circuit request is valid.
func (r *NewDomainCircuitRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Domain, customValidation.FirstPartyDomain),
	)
}

// ProxyRequest describes the proxy a request would be routed through before isolation.
type ProxyRequest struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Flags    uint32 `json:"flags,omitempty"`
}

// Validate checks if the proxy description is valid. Direct proxies need no address.
// It has a value receiver so that ResolveRequest validates the embedded proxy too.
func (r ProxyRequest) Validate() error {
	needsAddress := r.Type != string(domain.ProxyTypeDirect)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type,
			validation.Required,
			customValidation.ProxyType,
		),
		validation.Field(&r.Host,
			validation.When(needsAddress, validation.Required, customValidation.NotBlank),
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Port,
			validation.When(needsAddress, validation.Required),
			validation.Min(0),
			customValidation.Port,
		),
	)
}

// ToDomain converts the request into a domain proxy descriptor.
func (r *ProxyRequest) ToDomain() domain.ProxyDescriptor {
	return domain.ProxyDescriptor{
		Type:     domain.ProxyType(r.Type),
		Host:     r.Host,
		Port:     r.Port,
		Username: r.Username,
		Password: r.Password,
		Flags:    r.Flags,
	}
}

// ResolveRequest asks which proxy a request from (domain, container_id) would use.
type ResolveRequest struct {
	Domain      string       `json:"domain"`
	ContainerID uint32       `json:"container_id"`
	Proxy       ProxyRequest `json:"proxy"`
}

// Validate checks if the resolve request is valid.
func (r *ResolveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Domain, customValidation.FirstPartyDomain),
		validation.Field(&r.Proxy),
	)
}
