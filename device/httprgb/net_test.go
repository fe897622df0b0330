package httprgb

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHttpClientSendsMethodBodyAndBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "secret", password)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"on":1}`, string(body))
		_, _ = w.Write([]byte("done"))
	}))
	defer server.Close()

	response, err := NewHttpClient(time.Second).Send(context.Background(), Request{
		Url:      server.URL + "/on",
		Body:     `{"on":1}`,
		Method:   "post",
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
	assert.Equal(t, "done", response.Body)
}

func TestHttpClientOmitsAuthWithoutCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	response, err := NewHttpClient(time.Second).Send(context.Background(), Request{Url: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestHttpClientAcceptsSelfSignedCertificates(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1"))
	}))
	defer server.Close()

	response, err := NewHttpClient(time.Second).Send(context.Background(), Request{Url: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "1", response.Body)
}

func TestHttpClientHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHttpClient(time.Second).Send(ctx, Request{Url: server.URL})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriverAgainstRealServer(t *testing.T) {
	var frames []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/color":
			if frame := r.URL.Query().Get("frame"); frame != "" {
				frames = append(frames, frame)
				return
			}
			_, _ = w.Write([]byte("FF0000"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	config := colorOnlyConfig(true)
	config.Color.StatusUrl = server.URL + "/color"
	config.Color.SetUrl = server.URL + "/color?frame=%s"
	driver := newTestDriver(t, config, NewHttpClient(time.Second))

	saturation, err := driver.GetSaturation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, saturation)

	require.NoError(t, driver.SetBrightness(context.Background(), 100))
	assert.Equal(t, []string{"WR-255-0-0-0"}, frames)

	config.Power.StatusUrl = server.URL + "/power"
	_, err = driver.GetPower(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}
