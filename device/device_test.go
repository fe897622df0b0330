package device

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"httprgb/config"
	"httprgb/device/httprgb"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeBulb struct {
	mu     sync.Mutex
	server *httptest.Server
	hits   map[string]int
}

func newFakeBulb(t *testing.T) *fakeBulb {
	bulb := &fakeBulb{hits: map[string]int{}}
	bulb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bulb.mu.Lock()
		bulb.hits[r.URL.Path]++
		bulb.mu.Unlock()
		switch r.URL.Path {
		case "/power":
			_, _ = w.Write([]byte("1"))
		case "/brightness":
			_, _ = w.Write([]byte("64"))
		case "/color":
			_, _ = w.Write([]byte("AABBCC"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(bulb.server.Close)
	return bulb
}

func (bulb *fakeBulb) count(path string) int {
	bulb.mu.Lock()
	defer bulb.mu.Unlock()
	return bulb.hits[path]
}

func (bulb *fakeBulb) appConfig(t *testing.T) *config.AppConfig {
	appConfig, err := config.ParseAppConfig([]byte(`
accessories:
  - name: Desk Lamp
    room: Office
    switch:
      status: ` + bulb.server.URL + `/power
      powerOn: ` + bulb.server.URL + `/on
      powerOff: ` + bulb.server.URL + `/off
    brightness:
      status: ` + bulb.server.URL + `/brightness
    color:
      status: ` + bulb.server.URL + `/color
  - name: Porch
    switch:
      powerOn: ` + bulb.server.URL + `/on
      powerOff: ` + bulb.server.URL + `/off
`))
	require.NoError(t, err)
	return appConfig
}

func newDrivers(t *testing.T, bulb *fakeBulb) []*httprgb.Driver {
	drivers, err := NewDrivers(bulb.appConfig(t), httprgb.NewHttpClient(time.Second), prometheus.NewRegistry(), zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)
	return drivers
}

func TestNewDrivers(t *testing.T) {
	drivers := newDrivers(t, newFakeBulb(t))
	require.Len(t, drivers, 2)
	assert.Equal(t, "Desk Lamp", drivers[0].Name())
	assert.True(t, drivers[0].HasBrightness())
	assert.True(t, drivers[0].HasColor())
	assert.Equal(t, "Porch", drivers[1].Name())
	assert.False(t, drivers[1].CanReadPower())
	assert.False(t, drivers[1].HasBrightness())
}

func TestNewDriversRejectsDuplicateMetrics(t *testing.T) {
	bulb := newFakeBulb(t)
	registry := prometheus.NewRegistry()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	_, err := NewDrivers(bulb.appConfig(t), httprgb.NewHttpClient(time.Second), registry, logger)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = NewDrivers(bulb.appConfig(t), httprgb.NewHttpClient(time.Second), registry, logger)
	})
}

func TestRefreshOnceReadsEverythingReadable(t *testing.T) {
	bulb := newFakeBulb(t)
	drivers := newDrivers(t, bulb)
	refresher := NewRefresher(drivers, time.Minute, zerolog.New(zerolog.NewTestWriter(t)))

	refresher.RefreshOnce(context.Background(), drivers[0])
	refresher.RefreshOnce(context.Background(), drivers[1])

	assert.Equal(t, 1, bulb.count("/power"))
	assert.Equal(t, 1, bulb.count("/brightness"))
	assert.Equal(t, 1, bulb.count("/color"))
	brightness, saturation := drivers[0].State().Snapshot()
	assert.Equal(t, 64, brightness)
	assert.Equal(t, 25, saturation)
	assert.Zero(t, bulb.count("/on"))
}

func TestRefresherDisabled(t *testing.T) {
	refresher := NewRefresher(newDrivers(t, newFakeBulb(t)), 0, zerolog.Nop())
	assert.NoError(t, refresher.Run(context.Background()))
}

func TestRefresherPollsUntilCancelled(t *testing.T) {
	bulb := newFakeBulb(t)
	refresher := NewRefresher(newDrivers(t, bulb), 10*time.Millisecond, zerolog.Nop())
	refresher.jitter = 0

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- refresher.Run(ctx) }()

	assert.Eventually(t, func() bool { return bulb.count("/power") >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}
