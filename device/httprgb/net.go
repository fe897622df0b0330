package httprgb

import (
	"context"
	"crypto/tls"
	"fmt"
	"github.com/samber/lo"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBodyBytes = 64 * 1024

// HttpClient is the transport the driver sends every command through.
// Retries, timeouts and certificate policy all belong to the implementation.
type HttpClient interface {
	Send(ctx context.Context, request Request) (*Response, error)
}

type Request struct {
	Url      string
	Body     string
	Method   string // empty means GET
	Username string
	Password string
}

type Response struct {
	StatusCode int
	Body       string
}

type httpClient struct {
	client *http.Client // long-lived so idle connections to the bulb are reused
}

// NewHttpClient returns the default transport. Bulbs commonly serve HTTPS with
// a self-signed certificate, so certificates are not verified.
func NewHttpClient(timeout time.Duration) HttpClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tr := &http.Transport{
		TLSClientConfig:        &tls.Config{InsecureSkipVerify: true},
		DisableKeepAlives:      false,
		DisableCompression:     false,
		MaxIdleConnsPerHost:    1,
		IdleConnTimeout:        5 * time.Minute,
		ResponseHeaderTimeout:  timeout,
		MaxResponseHeaderBytes: 4096,
		ForceAttemptHTTP2:      false,
	}
	return &httpClient{
		client: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
	}
}

func (c *httpClient) Send(ctx context.Context, request Request) (*Response, error) {
	method := lo.Ternary(request.Method == "", http.MethodGet, strings.ToUpper(request.Method))
	var body io.Reader = http.NoBody
	if request.Body != "" {
		body = strings.NewReader(request.Body)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, method, request.Url, body)
	if err != nil {
		return nil, fmt.Errorf("could not build %s request for '%s': %w", method, request.Url, err)
	}
	if request.Username != "" || request.Password != "" {
		httpRequest.SetBasicAuth(request.Username, request.Password)
	}

	response, err := c.client.Do(httpRequest)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(response.Body)
	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read response body from '%s': %w", request.Url, err)
	}
	return &Response{StatusCode: response.StatusCode, Body: string(responseBody)}, nil
}
