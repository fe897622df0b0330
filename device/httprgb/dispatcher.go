package httprgb

import (
	"context"
	"errors"
	"fmt"
	"github.com/samber/lo"
	"httprgb/colormath"
	"httprgb/types"
	"net/http"
	"strconv"
	"strings"
)

// urlPlaceholder is replaced, once, by the value being set.
const urlPlaceholder = "%s"

type ColorFrame struct {
	WarmWhite int
	CoolWhite int
	Encoded   string // e.g. WR-204-255-0-0
}

// Dispatcher turns logical commands into HTTP requests for one device and
// parses status responses back into logical values. It holds no state of its
// own.
type Dispatcher struct {
	config *types.DeviceConfig
	client HttpClient
}

func NewDispatcher(config *types.DeviceConfig, client HttpClient) *Dispatcher {
	return &Dispatcher{config: config, client: client}
}

func (d *Dispatcher) SendPower(ctx context.Context, on bool) (string, error) {
	endpoint := lo.Ternary(on, d.config.Power.On, d.config.Power.Off)
	if endpoint.Url == "" {
		return "", fmt.Errorf("%w: no power %s url for %s", ErrConfigurationMissing, onOff(on), d.config.Name)
	}
	return d.exchange(ctx, endpoint.Url, endpoint.Body, d.deviceMethod())
}

func (d *Dispatcher) SendBrightness(ctx context.Context, level int) error {
	if d.config.Brightness == nil || d.config.Brightness.SetUrl == "" {
		return fmt.Errorf("%w: no brightness url for %s", ErrConfigurationMissing, d.config.Name)
	}
	url := fillTemplate(d.config.Brightness.SetUrl, strconv.Itoa(colormath.ClampPercent(level)))
	_, err := d.exchange(ctx, url, "", d.methodOr(d.config.Brightness.HttpMethod))
	return err
}

// SendColorFrame encodes the cached saturation and brightness as a single
// colour frame and sends it.
func (d *Dispatcher) SendColorFrame(ctx context.Context, state *State) (ColorFrame, error) {
	if d.config.Color == nil || d.config.Color.SetUrl == "" {
		return ColorFrame{}, fmt.Errorf("%w: no colour url for %s", ErrConfiguration, d.config.Name)
	}
	brightness, saturation := state.Snapshot()
	frame := BuildColorFrame(d.config.Color, saturation, brightness)
	url := fillTemplate(d.config.Color.SetUrl, frame.Encoded)
	if _, err := d.exchange(ctx, url, "", d.methodOr(d.config.Color.HttpMethod)); err != nil {
		return ColorFrame{}, err
	}
	return frame, nil
}

func (d *Dispatcher) ReadPower(ctx context.Context) (bool, error) {
	if d.config.Power.StatusUrl == "" {
		return false, fmt.Errorf("%w: no power status url for %s", ErrConfigurationMissing, d.config.Name)
	}
	body, err := d.exchange(ctx, d.config.Power.StatusUrl, "", http.MethodGet)
	if err != nil {
		return false, err
	}
	return parsePower(body)
}

func (d *Dispatcher) ReadBrightness(ctx context.Context) (int, error) {
	if d.config.Brightness == nil || d.config.Brightness.StatusUrl == "" {
		return 0, fmt.Errorf("%w: no brightness status url for %s", ErrConfigurationMissing, d.config.Name)
	}
	body, err := d.exchange(ctx, d.config.Brightness.StatusUrl, "", http.MethodGet)
	if err != nil {
		return 0, err
	}
	return parseBrightness(body)
}

func (d *Dispatcher) ReadSaturation(ctx context.Context) (int, error) {
	if d.config.Color == nil || d.config.Color.StatusUrl == "" {
		return 0, fmt.Errorf("%w: no colour status url for %s", ErrConfiguration, d.config.Name)
	}
	body, err := d.exchange(ctx, d.config.Color.StatusUrl, "", http.MethodGet)
	if err != nil {
		return 0, err
	}
	saturation, err := colormath.SaturationFromHex(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return saturation, nil
}

func (d *Dispatcher) exchange(ctx context.Context, url, body, method string) (string, error) {
	response, err := d.client.Send(ctx, Request{
		Url:      url,
		Body:     body,
		Method:   method,
		Username: d.config.Credentials.Username,
		Password: d.config.Credentials.Password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s %s: %w", ErrTransport, method, url, err)
	}
	if response == nil {
		return "", fmt.Errorf("%w: %s %s: no response", ErrTransport, method, url)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s %s: expected a 2xx status code, got %d", ErrTransport, method, url, response.StatusCode)
	}
	return response.Body, nil
}

func (d *Dispatcher) deviceMethod() string {
	return lo.Ternary(d.config.HttpMethod == "", types.DefaultHttpMethod, d.config.HttpMethod)
}

func (d *Dispatcher) methodOr(method string) string {
	return lo.Ternary(method == "", d.deviceMethod(), method)
}

func BuildColorFrame(color *types.ColorConfig, saturation, brightness int) ColorFrame {
	warm, cool := colormath.ComputeWhiteChannels(saturation, brightness, color.ChannelMax)
	prefix, _ := lo.Coalesce(color.FramePrefix, types.DefaultFramePrefix)
	delimiter, _ := lo.Coalesce(color.FrameDelimiter, types.DefaultFrameDelimiter)
	// The two trailing RGB-adjacent channels stay dark: hue is not modelled.
	encoded := strings.Join([]string{prefix, strconv.Itoa(warm), strconv.Itoa(cool), "0", "0"}, delimiter)
	return ColorFrame{WarmWhite: warm, CoolWhite: cool, Encoded: encoded}
}

func fillTemplate(url, value string) string {
	return strings.Replace(url, urlPlaceholder, value, 1)
}

// parsePower treats any leading integer above zero as on, so "0.5" is off.
func parsePower(body string) (bool, error) {
	value, ok := leadingInt(body)
	if !ok {
		return false, fmt.Errorf("%w: power status '%s' is not numeric", ErrParse, body)
	}
	return value > 0, nil
}

func parseBrightness(body string) (int, error) {
	level, ok := leadingInt(body)
	if !ok {
		return 0, fmt.Errorf("%w: brightness '%s' is not an integer", ErrParse, body)
	}
	return colormath.ClampPercent(level), nil
}

// leadingInt reads the decimal integer a body starts with, after optional
// whitespace and sign, ignoring whatever follows: "75.0" and "75%" are 75.
// Values too large for an int saturate.
func leadingInt(body string) (int, bool) {
	trimmed := strings.TrimLeft(body, " \t\r\n")
	end := 0
	if end < len(trimmed) && (trimmed[end] == '+' || trimmed[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	value, err := strconv.ParseInt(trimmed[:end], 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return int(value), true
}

func onOff(on bool) string {
	return lo.Ternary(on, "on", "off")
}
