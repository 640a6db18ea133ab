package restclient

import "context"

var _ Interface = &RestClient{}

type Interface interface {
	Post(ctx context.Context, endpoint string, body any, headers map[string]string) ([]byte, int, error)
}
