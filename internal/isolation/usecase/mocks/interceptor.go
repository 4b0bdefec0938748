// Package mocks provides testify mocks of the isolation use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/usecase"
)

// MockInterceptor is a mock implementation of usecase.Interceptor.
type MockInterceptor struct {
	mock.Mock
}

// NewMockInterceptor creates a MockInterceptor whose expectations are asserted on cleanup.
func NewMockInterceptor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockInterceptor {
	m := &MockInterceptor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// OnRequest mocks the OnRequest method of Interceptor.
func (m *MockInterceptor) OnRequest(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
	original domain.ProxyDescriptor,
) (domain.ProxyDescriptor, domain.Outcome) {
	args := m.Called(ctx, firstParty, containerID, original)
	return args.Get(0).(domain.ProxyDescriptor), args.Get(1).(domain.Outcome)
}

// Intercept mocks the Intercept method of Interceptor.
func (m *MockInterceptor) Intercept(
	ctx context.Context,
	src usecase.RequestSource,
	original domain.ProxyDescriptor,
) (domain.ProxyDescriptor, domain.Outcome) {
	args := m.Called(ctx, src, original)
	return args.Get(0).(domain.ProxyDescriptor), args.Get(1).(domain.Outcome)
}
