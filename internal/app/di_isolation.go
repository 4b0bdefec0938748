package app

import (
	"context"
	"fmt"

	"github.com/allisson/isolator/internal/isolation/dialer"
	isolationHTTP "github.com/allisson/isolator/internal/isolation/http"
	isolationService "github.com/allisson/isolator/internal/isolation/service"
	isolationUseCase "github.com/allisson/isolator/internal/isolation/usecase"
	"github.com/allisson/isolator/internal/metrics"
)

// NonceGenerator returns the token source backing the isolation engine.
func (c *Container) NonceGenerator() isolationService.NonceGenerator {
	c.nonceGeneratorInit.Do(func() {
		c.nonceGenerator = isolationService.NewNonceGenerator()
	})
	return c.nonceGenerator
}

// Engine returns the isolation engine. There is exactly one per container.
func (c *Container) Engine() (*isolationUseCase.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// Interceptor returns the request interceptor, instrumented when metrics are enabled.
func (c *Container) Interceptor() (isolationUseCase.Interceptor, error) {
	var err error
	c.interceptorInit.Do(func() {
		c.interceptor, err = c.initInterceptor()
		if err != nil {
			c.initErrors["interceptor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["interceptor"]; exists {
		return nil, storedErr
	}
	return c.interceptor, nil
}

// ControlSurface returns the control surface, instrumented when metrics are enabled.
func (c *Container) ControlSurface() (isolationUseCase.ControlSurface, error) {
	var err error
	c.controlSurfaceInit.Do(func() {
		c.controlSurface, err = c.initControlSurface()
		if err != nil {
			c.initErrors["controlSurface"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["controlSurface"]; exists {
		return nil, storedErr
	}
	return c.controlSurface, nil
}

// IsolationHandler returns the isolation HTTP handler instance.
func (c *Container) IsolationHandler() (*isolationHTTP.IsolationHandler, error) {
	var err error
	c.isolationHandlerInit.Do(func() {
		c.isolationHandler, err = c.initIsolationHandler()
		if err != nil {
			c.initErrors["isolationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["isolationHandler"]; exists {
		return nil, storedErr
	}
	return c.isolationHandler, nil
}

// Dialer returns the isolating dialer for the configured upstream SOCKS proxy.
func (c *Container) Dialer() (*dialer.Dialer, error) {
	var err error
	c.dialerInit.Do(func() {
		c.dialer, err = c.initDialer()
		if err != nil {
			c.initErrors["dialer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dialer"]; exists {
		return nil, storedErr
	}
	return c.dialer, nil
}

// initEngine creates the isolation engine from configuration and exports its key store
// size as gauges.
func (c *Container) initEngine() (*isolationUseCase.Engine, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for engine: %w", err)
	}

	engine := isolationUseCase.NewEngine(isolationUseCase.Config{
		Enabled:        c.config.IsolationStartsEnabled(),
		CatchAllMaxAge: c.config.CatchAllMaxAge,
		Metrics:        businessMetrics,
	}, c.NonceGenerator(), c.Logger())

	err = businessMetrics.ObserveIsolation(func(ctx context.Context) metrics.IsolationSnapshot {
		status := engine.Status(ctx)
		return metrics.IsolationSnapshot{
			Enabled:     status.Enabled,
			Domains:     status.Domains,
			Containers:  status.Containers,
			CatchAllAge: status.CatchAllAge,
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register isolation gauges: %w", err)
	}
	return engine, nil
}

// initInterceptor wraps the engine with metrics if enabled.
func (c *Container) initInterceptor() (isolationUseCase.Interceptor, error) {
	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for interceptor: %w", err)
	}
	var interceptor isolationUseCase.Interceptor = engine

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for interceptor: %w", err)
		}
		return isolationUseCase.NewInterceptorWithMetrics(interceptor, businessMetrics), nil
	}

	return interceptor, nil
}

// initControlSurface wraps the engine with metrics if enabled.
func (c *Container) initControlSurface() (isolationUseCase.ControlSurface, error) {
	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for control surface: %w", err)
	}
	var control isolationUseCase.ControlSurface = engine

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for control surface: %w", err)
		}
		return isolationUseCase.NewControlSurfaceWithMetrics(control, businessMetrics), nil
	}

	return control, nil
}

// initIsolationHandler creates the isolation HTTP handler with all its dependencies.
func (c *Container) initIsolationHandler() (*isolationHTTP.IsolationHandler, error) {
	controlSurface, err := c.ControlSurface()
	if err != nil {
		return nil, fmt.Errorf("failed to get control surface for isolation handler: %w", err)
	}

	return isolationHTTP.NewIsolationHandler(controlSurface, c.Logger()), nil
}

// initDialer creates the isolating dialer with all its dependencies.
func (c *Container) initDialer() (*dialer.Dialer, error) {
	interceptor, err := c.Interceptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get interceptor for dialer: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for dialer: %w", err)
	}

	return dialer.NewDialer(interceptor, c.config.DefaultProxy(), businessMetrics, c.Logger()), nil
}
