package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/allisson/isolator/internal/isolation/dialer"
	"github.com/allisson/isolator/internal/isolation/domain"
	isolationUseCase "github.com/allisson/isolator/internal/isolation/usecase"
)

// RunFetch performs one GET through the isolating dialer. When firstParty is empty the URL's
// host is used as the first-party domain.
func RunFetch(
	ctx context.Context,
	httpClient *resty.Client,
	control isolationUseCase.ControlSurface,
	logger *slog.Logger,
	w io.Writer,
	rawURL string,
	firstParty string,
	containerID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" {
		return fmt.Errorf("invalid url: %s", rawURL)
	}
	if firstParty == "" {
		firstParty = target.Hostname()
	}

	id, err := domain.ParseContainerID(containerID)
	if err != nil {
		return fmt.Errorf("invalid container id %q: %w", containerID, err)
	}

	resp, err := httpClient.R().
		SetContext(dialer.WithAttribution(ctx, firstParty, id)).
		Get(target.String())
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", target, err)
	}

	var fingerprint string
	if creds, ok := control.LookupCredentials(ctx, firstParty, id); ok {
		fingerprint = creds.Fingerprint()
	}

	logger.Info("fetched",
		slog.String("url", target.String()),
		slog.Int("status", resp.StatusCode()),
		slog.String("domain", firstParty),
		slog.String("container_id", id.String()),
		slog.String("credentials", fingerprint),
	)

	if format == "json" {
		return writeJSON(w, map[string]interface{}{
			"url":          target.String(),
			"status":       resp.StatusCode(),
			"bytes":        len(resp.Body()),
			"domain":       firstParty,
			"container_id": id,
			"fingerprint":  fingerprint,
		})
	}

	_, err = w.Write(resp.Body())
	return err
}
