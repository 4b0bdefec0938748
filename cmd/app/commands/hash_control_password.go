package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	authService "github.com/allisson/isolator/internal/auth/service"
	customValidation "github.com/allisson/isolator/internal/validation"
)

// controlPasswordPolicy is the minimum strength of an operator-chosen control password.
var controlPasswordPolicy = customValidation.PasswordStrength{
	MinLength:     12,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}

// RunHashControlPassword produces the CONTROL_PASSWORD_HASH value protecting the control API.
// An empty plainPassword generates a random one; "-" reads it from the first line of io.Reader.
func RunHashControlPassword(
	passwordService authService.PasswordService,
	logger *slog.Logger,
	rw IOTuple,
	plainPassword string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if plainPassword == "-" {
		line, err := bufio.NewReader(rw.Reader).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read password: %w", err)
		}
		plainPassword = strings.TrimRight(line, "\r\n")
		if plainPassword == "" {
			return fmt.Errorf("empty password on stdin")
		}
	}

	var hash string
	generated := plainPassword == ""
	if generated {
		var err error
		plainPassword, hash, err = passwordService.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate control password: %w", err)
		}
	} else {
		if err := validation.Validate(plainPassword, validation.Required, controlPasswordPolicy); err != nil {
			return fmt.Errorf("weak control password: %w", customValidation.WrapValidationError(err))
		}
		var err error
		hash, err = passwordService.HashPassword(plainPassword)
		if err != nil {
			return fmt.Errorf("failed to hash control password: %w", err)
		}
	}

	logger.Info("control password hashed", slog.Bool("generated", generated))

	if format == "json" {
		result := map[string]interface{}{"hash": hash}
		if generated {
			result["password"] = plainPassword
		}
		return writeJSON(rw.Writer, result)
	}

	if generated {
		if _, err := fmt.Fprintf(rw.Writer,
			"# Control password (shown once, pass it with --password or CONTROL_PASSWORD):\n# %s\n",
			plainPassword,
		); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(rw.Writer, "CONTROL_PASSWORD_HASH=%q\n", hash)
	return err
}
