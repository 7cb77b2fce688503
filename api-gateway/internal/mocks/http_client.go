package mocks

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
)

type HTTPClient struct {
	mock.Mock
}

func (m *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func NewHTTPClient(t *testing.T) *HTTPClient {
	client := &HTTPClient{}
	t.Cleanup(func() { client.AssertExpectations(t) })
	return client
}
