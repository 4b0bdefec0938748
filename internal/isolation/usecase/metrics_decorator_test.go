package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/usecase"
	usecaseMocks "github.com/allisson/isolator/internal/isolation/usecase/mocks"
	"github.com/allisson/isolator/internal/metrics"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordRotation(ctx context.Context, scope, trigger string) {
	m.Called(ctx, scope, trigger)
}

func (m *mockBusinessMetrics) ObserveIsolation(snapshot func(ctx context.Context) metrics.IsolationSnapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

func (m *mockBusinessMetrics) expect(ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "isolation", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "isolation", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

// staticSource is a RequestSource with fixed answers.
type staticSource struct{}

func (staticSource) FirstPartyDomain() (string, error)        { return "example.com", nil }
func (staticSource) ContainerID() (domain.ContainerID, error) { return 0, nil }

func TestInterceptorWithMetrics(t *testing.T) {
	ctx := context.Background()
	original := domain.ProxyDescriptor{Type: domain.ProxyTypeSOCKS5, Host: "127.0.0.1", Port: 9150}
	isolated := original.WithCredentials(domain.Credentials{Username: "example.com:0", Password: "secret"})

	tests := []struct {
		name    string
		proxy   domain.ProxyDescriptor
		outcome domain.Outcome
	}{
		{name: "Isolated", proxy: isolated, outcome: domain.OutcomeIsolated},
		{name: "PassthroughDisabled", proxy: original, outcome: domain.OutcomePassthroughDisabled},
		{name: "PassthroughUnsupported", proxy: original, outcome: domain.OutcomePassthroughUnsupported},
		{name: "PassthroughError", proxy: original, outcome: domain.OutcomePassthroughError},
	}

	for _, tt := range tests {
		t.Run("OnRequest_"+tt.name, func(t *testing.T) {
			mockNext := usecaseMocks.NewMockInterceptor(t)
			mockMetrics := &mockBusinessMetrics{}
			interceptor := usecase.NewInterceptorWithMetrics(mockNext, mockMetrics)

			mockNext.On("OnRequest", ctx, "example.com", domain.ContainerID(0), original).
				Return(tt.proxy, tt.outcome).
				Once()
			mockMetrics.expect(ctx, "intercept", tt.outcome.String())

			proxy, outcome := interceptor.OnRequest(ctx, "example.com", 0, original)

			assert.Equal(t, tt.proxy, proxy)
			assert.Equal(t, tt.outcome, outcome)
			mockMetrics.AssertExpectations(t)
		})
	}

	t.Run("Intercept", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockInterceptor(t)
		mockMetrics := &mockBusinessMetrics{}
		interceptor := usecase.NewInterceptorWithMetrics(mockNext, mockMetrics)
		src := staticSource{}

		mockNext.On("Intercept", ctx, src, original).Return(isolated, domain.OutcomeIsolated).Once()
		mockMetrics.expect(ctx, "intercept", "isolated")

		proxy, outcome := interceptor.Intercept(ctx, src, original)

		assert.Equal(t, isolated, proxy)
		assert.Equal(t, domain.OutcomeIsolated, outcome)
		mockMetrics.AssertExpectations(t)
	})
}

func TestControlSurfaceWithMetrics(t *testing.T) {
	ctx := context.Background()
	expectedErr := errors.New("entropy source unavailable")

	t.Run("Enable", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("Enable", ctx).Return().Once()
		mockMetrics.expect(ctx, "enable", "success")

		control.Enable(ctx)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Disable", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("Disable", ctx).Return().Once()
		mockMetrics.expect(ctx, "disable", "success")

		control.Disable(ctx)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Enabled is not recorded", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("Enabled", ctx).Return(true).Once()

		assert.True(t, control.Enabled(ctx))
		mockMetrics.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NewCircuitForDomain success", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("NewCircuitForDomain", ctx, "example.com").Return(nil).Once()
		mockMetrics.expect(ctx, "new_circuit_domain", "success")

		assert.NoError(t, control.NewCircuitForDomain(ctx, "example.com"))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("NewCircuitForDomain error", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("NewCircuitForDomain", ctx, "example.com").Return(expectedErr).Once()
		mockMetrics.expect(ctx, "new_circuit_domain", "error")

		assert.ErrorIs(t, control.NewCircuitForDomain(ctx, "example.com"), expectedErr)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("NewCircuitForContainer success", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("NewCircuitForContainer", ctx, domain.ContainerID(7)).Return(nil).Once()
		mockMetrics.expect(ctx, "new_circuit_container", "success")

		assert.NoError(t, control.NewCircuitForContainer(ctx, 7))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("NewCircuitForContainer error", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("NewCircuitForContainer", ctx, domain.ContainerID(7)).Return(expectedErr).Once()
		mockMetrics.expect(ctx, "new_circuit_container", "error")

		assert.ErrorIs(t, control.NewCircuitForContainer(ctx, 7), expectedErr)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("ClearIsolation", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("ClearIsolation", ctx).Return(nil).Once()
		mockMetrics.expect(ctx, "clear", "success")

		assert.NoError(t, control.ClearIsolation(ctx))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("LookupCredentials hit", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)
		creds := domain.Credentials{Username: "example.com:0", Password: "secret"}

		mockNext.On("LookupCredentials", ctx, "example.com", domain.ContainerID(0)).Return(creds, true).Once()
		mockMetrics.expect(ctx, "lookup_credentials", "hit")

		got, ok := control.LookupCredentials(ctx, "example.com", 0)
		assert.True(t, ok)
		assert.Equal(t, creds, got)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("LookupCredentials miss", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)

		mockNext.On("LookupCredentials", ctx, "example.com", domain.ContainerID(0)).
			Return(domain.Credentials{}, false).
			Once()
		mockMetrics.expect(ctx, "lookup_credentials", "miss")

		_, ok := control.LookupCredentials(ctx, "example.com", 0)
		assert.False(t, ok)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Resolve labels outcome", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)
		original := domain.ProxyDescriptor{Type: domain.ProxyTypeHTTP, Host: "proxy.local", Port: 3128}
		res := domain.Resolution{Proxy: original, Outcome: domain.OutcomePassthroughUnsupported}

		mockNext.On("Resolve", ctx, "example.com", domain.ContainerID(0), original).Return(res).Once()
		mockMetrics.expect(ctx, "resolve", "passthrough_unsupported")

		assert.Equal(t, res, control.Resolve(ctx, "example.com", 0, original))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Resolve pending", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)
		original := domain.ProxyDescriptor{Type: domain.ProxyTypeSOCKS5, Host: "127.0.0.1", Port: 9150}
		res := domain.Resolution{Proxy: original, Outcome: domain.OutcomeIsolated, Pending: true}

		mockNext.On("Resolve", ctx, "example.com", domain.ContainerID(0), original).Return(res).Once()
		mockMetrics.expect(ctx, "resolve", "pending")

		assert.Equal(t, res, control.Resolve(ctx, "example.com", 0, original))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Status is not recorded", func(t *testing.T) {
		mockNext := usecaseMocks.NewMockControlSurface(t)
		mockMetrics := &mockBusinessMetrics{}
		control := usecase.NewControlSurfaceWithMetrics(mockNext, mockMetrics)
		status := domain.Status{Enabled: true, SessionID: uuid.New(), Domains: 2}

		mockNext.On("Status", ctx).Return(status).Once()

		assert.Equal(t, status, control.Status(ctx))
		mockMetrics.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
