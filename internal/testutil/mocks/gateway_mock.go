package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Pavlentiyys/digitalFest/internal/gateway"
)

// MockGateway is a mock implementation of gateway.ClientInterface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Do(ctx context.Context, method, path string, payload any, headers map[string]string) (*gateway.Result, error) {
	args := m.Called(ctx, method, path, payload, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Result), args.Error(1)
}

func (m *MockGateway) DoBody(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string) (*gateway.Result, error) {
	args := m.Called(ctx, method, path, body, contentType, headers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Result), args.Error(1)
}
