package commands

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/http/dto"
)

// MockControlClient is a manual mock for ControlClient.
type MockControlClient struct {
	mock.Mock
}

func (m *MockControlClient) statusResult(args mock.Arguments) (*dto.StatusResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatusResponse), args.Error(1)
}

func (m *MockControlClient) Status(ctx context.Context) (*dto.StatusResponse, error) {
	return m.statusResult(m.Called(ctx))
}

func (m *MockControlClient) Enable(ctx context.Context) (*dto.StatusResponse, error) {
	return m.statusResult(m.Called(ctx))
}

func (m *MockControlClient) Disable(ctx context.Context) (*dto.StatusResponse, error) {
	return m.statusResult(m.Called(ctx))
}

func (m *MockControlClient) NewCircuitForDomain(ctx context.Context, firstParty string) error {
	return m.Called(ctx, firstParty).Error(0)
}

func (m *MockControlClient) NewCircuitForContainer(ctx context.Context, containerID domain.ContainerID) error {
	return m.Called(ctx, containerID).Error(0)
}

func (m *MockControlClient) Clear(ctx context.Context) (*dto.StatusResponse, error) {
	return m.statusResult(m.Called(ctx))
}

func (m *MockControlClient) Credentials(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
) (*dto.CredentialsResponse, error) {
	args := m.Called(ctx, firstParty, containerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CredentialsResponse), args.Error(1)
}
