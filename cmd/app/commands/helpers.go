// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/isolator/internal/app"
	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/http/dto"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// ControlClient is the subset of the control API client used by the CLI.
type ControlClient interface {
	Status(ctx context.Context) (*dto.StatusResponse, error)
	Enable(ctx context.Context) (*dto.StatusResponse, error)
	Disable(ctx context.Context) (*dto.StatusResponse, error)
	NewCircuitForDomain(ctx context.Context, firstParty string) error
	NewCircuitForContainer(ctx context.Context, containerID domain.ContainerID) error
	Clear(ctx context.Context) (*dto.StatusResponse, error)
	Credentials(
		ctx context.Context,
		firstParty string,
		containerID domain.ContainerID,
	) (*dto.CredentialsResponse, error)
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// validateFormat rejects output formats other than text and json.
func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
	return nil
}

// writeJSON writes v as indented JSON for machine consumption.
func writeJSON(w io.Writer, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// writeStatus outputs an engine status snapshot.
func writeStatus(w io.Writer, status *dto.StatusResponse, format string) error {
	if format == "json" {
		return writeJSON(w, status)
	}

	state := "disabled"
	if status.Enabled {
		state = "enabled"
	}
	_, err := fmt.Fprintf(w,
		"Isolation:   %s\nSession:     %s\nDomains:     %d\nContainers:  %d\nCatch-all:   %.0fs of %.0fs\n",
		state,
		status.SessionID,
		status.Domains,
		status.Containers,
		status.CatchAllAgeSeconds,
		status.CatchAllMaxAgeSeconds,
	)
	return err
}
