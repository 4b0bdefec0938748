package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/isolator/internal/isolation/domain"
)

// MockControlSurface is a mock implementation of usecase.ControlSurface.
type MockControlSurface struct {
	mock.Mock
}

// NewMockControlSurface creates a MockControlSurface whose expectations are asserted on cleanup.
func NewMockControlSurface(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockControlSurface {
	m := &MockControlSurface{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Enable mocks the Enable method of ControlSurface.
func (m *MockControlSurface) Enable(ctx context.Context) {
	m.Called(ctx)
}

// Disable mocks the Disable method of ControlSurface.
func (m *MockControlSurface) Disable(ctx context.Context) {
	m.Called(ctx)
}

// Enabled mocks the Enabled method of ControlSurface.
func (m *MockControlSurface) Enabled(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// NewCircuitForDomain mocks the NewCircuitForDomain method of ControlSurface.
func (m *MockControlSurface) NewCircuitForDomain(ctx context.Context, firstParty string) error {
	args := m.Called(ctx, firstParty)
	return args.Error(0)
}

// NewCircuitForContainer mocks the NewCircuitForContainer method of ControlSurface.
func (m *MockControlSurface) NewCircuitForContainer(ctx context.Context, containerID domain.ContainerID) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}

// ClearIsolation mocks the ClearIsolation method of ControlSurface.
func (m *MockControlSurface) ClearIsolation(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// LookupCredentials mocks the LookupCredentials method of ControlSurface.
func (m *MockControlSurface) LookupCredentials(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
) (domain.Credentials, bool) {
	args := m.Called(ctx, firstParty, containerID)
	return args.Get(0).(domain.Credentials), args.Bool(1)
}

// Resolve mocks the Resolve method of ControlSurface.
func (m *MockControlSurface) Resolve(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
	original domain.ProxyDescriptor,
) domain.Resolution {
	args := m.Called(ctx, firstParty, containerID, original)
	return args.Get(0).(domain.Resolution)
}

// Status mocks the Status method of ControlSurface.
func (m *MockControlSurface) Status(ctx context.Context) domain.Status {
	args := m.Called(ctx)
	return args.Get(0).(domain.Status)
}
