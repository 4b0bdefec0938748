package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	apperrors "github.com/allisson/isolator/internal/errors"
	"github.com/allisson/isolator/internal/isolation/domain"
)

// RunCredentials prints the credentials currently used for a (domain, container) pair. The
// password is only printed when showPassword is set; otherwise its fingerprint is shown.
func RunCredentials(
	ctx context.Context,
	client ControlClient,
	logger *slog.Logger,
	w io.Writer,
	firstParty string,
	containerID string,
	showPassword bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := domain.ParseContainerID(containerID)
	if err != nil {
		return fmt.Errorf("invalid container id %q: %w", containerID, err)
	}

	creds, err := client.Credentials(ctx, firstParty, id)
	if apperrors.Is(err, domain.ErrCredentialsNotFound) {
		return fmt.Errorf("no credentials yet for %s in container %s", domain.NormalizeDomain(firstParty), id)
	}
	if err != nil {
		return fmt.Errorf("failed to get credentials: %w", err)
	}

	logger.Debug("credentials retrieved", slog.String("fingerprint", creds.Fingerprint))

	if !showPassword {
		creds.Password = ""
	}

	if format == "json" {
		return writeJSON(w, creds)
	}

	if _, err := fmt.Fprintf(w, "Username:     %s\nFingerprint:  %s\n", creds.Username, creds.Fingerprint); err != nil {
		return err
	}
	if showPassword {
		_, err = fmt.Fprintf(w, "Password:     %s\n", creds.Password)
	}
	return err
}
