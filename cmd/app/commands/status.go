package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// RunStatus prints the isolation status of a running server.
func RunStatus(ctx context.Context, client ControlClient, logger *slog.Logger, w io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	logger.Debug("status retrieved", slog.Bool("enabled", status.Enabled))
	return writeStatus(w, status, format)
}

// RunSetIsolation turns isolation on or off and prints the resulting status.
func RunSetIsolation(
	ctx context.Context,
	client ControlClient,
	logger *slog.Logger,
	w io.Writer,
	enabled bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	toggle := client.Disable
	if enabled {
		toggle = client.Enable
	}

	status, err := toggle(ctx)
	if err != nil {
		return fmt.Errorf("failed to change isolation state: %w", err)
	}

	logger.Info("isolation state changed", slog.Bool("enabled", status.Enabled))
	return writeStatus(w, status, format)
}

// RunNewIdentity discards every isolation token on the server ("New Identity").
func RunNewIdentity(ctx context.Context, client ControlClient, logger *slog.Logger, w io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	status, err := client.Clear(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear isolation: %w", err)
	}

	logger.Info("isolation cleared", slog.String("session_id", status.SessionID))
	return writeStatus(w, status, format)
}
