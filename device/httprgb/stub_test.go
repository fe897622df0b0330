package httprgb

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"httprgb/types"
	"sync"
	"testing"
)

// stubClient records every request and answers from a per-URL table.
type stubClient struct {
	mu        sync.Mutex
	requests  []Request
	responses map[string]*Response
	err       error
}

func newStubClient() *stubClient {
	return &stubClient{responses: map[string]*Response{}}
}

func (c *stubClient) Send(_ context.Context, request Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, request)
	if c.err != nil {
		return nil, c.err
	}
	if response, ok := c.responses[request.Url]; ok {
		return response, nil
	}
	return &Response{StatusCode: 200, Body: "OK"}, nil
}

func (c *stubClient) respond(url string, statusCode int, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[url] = &Response{StatusCode: statusCode, Body: body}
}

func (c *stubClient) failWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *stubClient) sent() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Request(nil), c.requests...)
}

func (c *stubClient) last(t *testing.T) Request {
	t.Helper()
	requests := c.sent()
	require.NotEmpty(t, requests)
	return requests[len(requests)-1]
}

func fullConfig() *types.DeviceConfig {
	return &types.DeviceConfig{
		Name:        "Desk Lamp",
		Room:        "Office",
		HttpMethod:  "POST",
		Credentials: types.Credentials{Username: "admin", Password: "secret"},
		Power: types.PowerConfig{
			StatusUrl: "http://bulb/power",
			On:        types.Endpoint{Url: "http://bulb/on", Body: `{"on":1}`},
			Off:       types.Endpoint{Url: "http://bulb/off"},
		},
		Brightness: &types.BrightnessConfig{
			StatusUrl:  "http://bulb/brightness",
			SetUrl:     "http://bulb/brightness?level=%s",
			HttpMethod: "PUT",
		},
		Color: &types.ColorConfig{
			StatusUrl:         "http://bulb/color",
			SetUrl:            "http://bulb/color?frame=%s",
			HttpMethod:        "GET",
			BrightnessCoupled: true,
			ChannelMax:        255,
			FramePrefix:       "WR",
			FrameDelimiter:    "-",
		},
	}
}

func brightnessOnlyConfig() *types.DeviceConfig {
	config := fullConfig()
	config.Color = nil
	return config
}

func colorOnlyConfig(coupled bool) *types.DeviceConfig {
	config := fullConfig()
	config.Brightness = nil
	config.Color.BrightnessCoupled = coupled
	return config
}

func newTestDriver(t *testing.T, config *types.DeviceConfig, client HttpClient) *Driver {
	t.Helper()
	driver, err := NewDriver(config, client, prometheus.NewRegistry(), zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)
	return driver
}
