package app

import (
	authService "github.com/allisson/isolator/internal/auth/service"
)

// PasswordService returns the control password service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = c.initPasswordService()
	})
	return c.passwordService
}

// initPasswordService creates the Argon2id-backed control password service.
func (c *Container) initPasswordService() authService.PasswordService {
	return authService.NewPasswordService()
}
