package systemuser_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/okapikit/pkg/systemuser"
)

// MockAuthClient is a mock implementation of AuthClient.
type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) Login(ctx context.Context, req systemuser.LoginRequest) (*systemuser.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*systemuser.LoginResponse), args.Error(1)
}

func (m *MockAuthClient) LookupUserID(ctx context.Context, req systemuser.LookupRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
