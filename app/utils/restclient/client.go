package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"KisanGPT/app/utils"
)

// StatusError is returned when the remote answered with a non-2xx status.
// Body holds whatever the server sent back so callers can log it.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, utils.Truncate(e.Body, 200))
}

type RestClient struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
}

func NewRestClient(baseURL string, headers map[string]string) *RestClient {
	return &RestClient{
		baseURL:    baseURL,
		headers:    headers,
		httpClient: &http.Client{},
	}
}

// WithTimeout sets the per-request timeout of the underlying http.Client.
func (c *RestClient) WithTimeout(d time.Duration) *RestClient {
	c.httpClient.Timeout = d
	return c
}

func (c *RestClient) setHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

func (c *RestClient) doRequestOnce(ctx context.Context, request *http.Request) ([]byte, int, error) {
	request = request.WithContext(ctx)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return body, response.StatusCode, &StatusError{Status: response.StatusCode, Body: string(body)}
	}
	return body, response.StatusCode, nil
}

func (c *RestClient) Post(ctx context.Context, endpoint string, body any, headers map[string]string) ([]byte, int, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, 0, err
	}
	c.setHeaders(request, headers)
	return c.doRequestOnce(ctx, request)
}
