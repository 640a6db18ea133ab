package restclient

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRestClient struct {
	mock.Mock
}

func (m *MockRestClient) Post(ctx context.Context, endpoint string, body any, headers map[string]string) ([]byte, int, error) {
	args := m.Called(ctx, endpoint, body, headers)
	out, _ := args.Get(0).([]byte)
	return out, args.Int(1), args.Error(2)
}
