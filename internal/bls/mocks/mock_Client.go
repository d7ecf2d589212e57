// Package mocks provides test doubles for the bls client.
package mocks

import (
	"context"

	bls "github.com/sells-group/oews-cli/internal/bls"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, seriesIDs
func (_m *MockClient) Fetch(ctx context.Context, seriesIDs []string) (*bls.Response, error) {
	ret := _m.Called(ctx, seriesIDs)

	if len(ret) == 0 {
		panic("no return value specified for Fetch")
	}

	var r0 *bls.Response
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []string) (*bls.Response, error)); ok {
		return rf(ctx, seriesIDs)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []string) *bls.Response); ok {
		r0 = rf(ctx, seriesIDs)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*bls.Response)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []string) error); ok {
		r1 = rf(ctx, seriesIDs)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
