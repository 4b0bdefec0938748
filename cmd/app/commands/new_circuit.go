package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/isolator/internal/isolation/domain"
)

// RunNewCircuit rotates the token of either a first-party domain or a container so that later
// requests use a new Tor circuit. With neither set it targets the catch-all identity.
func RunNewCircuit(
	ctx context.Context,
	client ControlClient,
	logger *slog.Logger,
	w io.Writer,
	firstParty string,
	containerID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if firstParty != "" && containerID != "" {
		return fmt.Errorf("--domain and --container are mutually exclusive")
	}

	var kind, target string

	if containerID != "" {
		id, err := domain.ParseContainerID(containerID)
		if err != nil {
			return fmt.Errorf("invalid container id %q: %w", containerID, err)
		}
		if err := client.NewCircuitForContainer(ctx, id); err != nil {
			return fmt.Errorf("failed to rotate container: %w", err)
		}
		kind, target = "container_id", id.String()
	} else {
		if err := client.NewCircuitForDomain(ctx, firstParty); err != nil {
			return fmt.Errorf("failed to rotate domain: %w", err)
		}
		kind, target = "domain", domain.NormalizeDomain(firstParty)
	}

	logger.Info("new circuit requested", slog.String(kind, target))

	if format == "json" {
		return writeJSON(w, map[string]interface{}{
			kind:      target,
			"rotated": true,
		})
	}

	_, err := fmt.Fprintf(w, "New circuit requested for %s %s\n", kind, target)
	return err
}
