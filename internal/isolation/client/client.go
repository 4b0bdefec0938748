// Package client is a Go client for the isolation control API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/allisson/isolator/internal/errors"
	"github.com/allisson/isolator/internal/httputil"
	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/http/dto"
)

const basePath = "/v1/isolation"

// Client calls a running isolator server.
type Client struct {
	resty *resty.Client
}

// New creates a client for the server at baseURL. An empty password sends no Authorization header.
func New(baseURL, password string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "isolator-cli")
	if password != "" {
		r.SetAuthToken(password)
	}
	return &Client{resty: r}
}

// Status returns the engine status.
func (c *Client) Status(ctx context.Context) (*dto.StatusResponse, error) {
	var out dto.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Enable turns isolation on and returns the new status.
func (c *Client) Enable(ctx context.Context) (*dto.StatusResponse, error) {
	var out dto.StatusResponse
	if err := c.do(ctx, http.MethodPost, "/enable", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Disable turns isolation off and returns the new status.
func (c *Client) Disable(ctx context.Context) (*dto.StatusResponse, error) {
	var out dto.StatusResponse
	if err := c.do(ctx, http.MethodPost, "/disable", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewCircuitForDomain rotates the token of firstParty. An empty domain targets the catch-all.
func (c *Client) NewCircuitForDomain(ctx context.Context, firstParty string) error {
	body := dto.NewDomainCircuitRequest{Domain: firstParty}
	return c.do(ctx, http.MethodPost, "/domains/new-circuit", body, nil, nil)
}

// NewCircuitForContainer rotates the token of containerID.
func (c *Client) NewCircuitForContainer(ctx context.Context, containerID domain.ContainerID) error {
	path := fmt.Sprintf("/containers/%s/new-circuit", containerID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// Clear discards every token and returns the new status.
func (c *Client) Clear(ctx context.Context) (*dto.StatusResponse, error) {
	var out dto.StatusResponse
	if err := c.do(ctx, http.MethodPost, "/clear", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Credentials returns the current credentials for the pair. It returns
// domain.ErrCredentialsNotFound when either token does not exist yet.
func (c *Client) Credentials(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
) (*dto.CredentialsResponse, error) {
	query := map[string]string{
		"domain":       firstParty,
		"container_id": containerID.String(),
	}
	var out dto.CredentialsResponse
	if err := c.do(ctx, http.MethodGet, "/credentials", nil, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resolve asks the server what it would do with a request for the given attribution.
func (c *Client) Resolve(ctx context.Context, req dto.ResolveRequest) (*dto.ResolveResponse, error) {
	var out dto.ResolveResponse
	if err := c.do(ctx, http.MethodPost, "/resolve", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body interface{},
	query map[string]string,
	result interface{},
) error {
	req := c.resty.R().
		SetContext(ctx).
		SetError(&httputil.ErrorResponse{})
	if body != nil {
		req.SetBody(body)
	}
	if query != nil {
		req.SetQueryParams(query)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, basePath+path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrUnavailable, err.Error())
	}
	if resp.IsError() {
		return responseError(resp)
	}
	return nil
}

// domainErrors maps the code of an error response back to the domain error it came from.
var domainErrors = map[string]error{
	domain.CodeCredentialsNotFound: domain.ErrCredentialsNotFound,
	domain.CodeInvalidContainerID:  domain.ErrInvalidContainerID,
	domain.CodeInvalidProxyType:    domain.ErrInvalidProxyType,
	domain.CodeNonceGeneration:     domain.ErrNonceGeneration,
}

// responseError maps an error response back onto the domain errors when the server sent a
// known code, and onto the application error sentinels otherwise.
func responseError(resp *resty.Response) error {
	msg := resp.Status()
	if e, ok := resp.Error().(*httputil.ErrorResponse); ok {
		if err, known := domainErrors[e.Code]; known {
			return err
		}
		if e.Message != "" {
			msg = e.Message
		}
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return apperrors.Wrap(apperrors.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.Wrap(apperrors.ErrInvalidInput, msg)
	case http.StatusUnauthorized:
		return apperrors.Wrap(apperrors.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return apperrors.Wrap(apperrors.ErrForbidden, msg)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return apperrors.Wrap(apperrors.ErrUnavailable, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), msg)
	}
}
