package homekit

import (
	"context"
	"errors"
	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"httprgb/device/httprgb"
	"math"
	"net/http"
)

const (
	Manufacturer = "HTTP Manufacturer"
	Model        = "homebridge-better-http-rgb"
	Firmware     = "1.0.0"
)

// Driver is the part of *httprgb.Driver a HomeKit lightbulb needs.
type Driver interface {
	Name() string
	CanReadPower() bool
	CanReadSaturation() bool
	HasBrightness() bool
	HasColor() bool
	Identify(ctx context.Context) error
	GetPower(ctx context.Context) (bool, error)
	SetPower(ctx context.Context, on bool) (string, error)
	GetBrightness(ctx context.Context) (int, error)
	SetBrightness(ctx context.Context, level int) error
	GetSaturation(ctx context.Context) (int, error)
	SetSaturation(ctx context.Context, level int) error
}

// Lightbulb is one driver exposed as a HomeKit accessory. Brightness and
// Saturation are nil when the driver lacks that capability.
type Lightbulb struct {
	*accessory.A
	Bulb       *service.Lightbulb
	Brightness *characteristic.Brightness
	Saturation *characteristic.Saturation

	driver Driver
	log    zerolog.Logger
}

func NewLightbulb(driver Driver, logger zerolog.Logger) *Lightbulb {
	info := accessory.Info{
		Name:         driver.Name(),
		SerialNumber: slug.Make(driver.Name()),
		Manufacturer: Manufacturer,
		Model:        Model,
		Firmware:     Firmware,
	}
	bulb := &Lightbulb{
		A:      accessory.New(info, accessory.TypeLightbulb),
		Bulb:   service.NewLightbulb(),
		driver: driver,
		log:    logger.With().Str("device", driver.Name()).Logger(),
	}
	bulb.AddS(bulb.Bulb.S)
	bulb.IdentifyFunc = func(request *http.Request) {
		_ = driver.Identify(contextOf(request))
	}

	bulb.Bulb.On.SetValueRequestFunc = bulb.setPower
	if driver.CanReadPower() {
		bulb.Bulb.On.ValueRequestFunc = bulb.getPower
	}
	if driver.HasBrightness() {
		bulb.Brightness = characteristic.NewBrightness()
		bulb.Brightness.ValueRequestFunc = bulb.getBrightness
		bulb.Brightness.SetValueRequestFunc = bulb.setBrightness
		bulb.Bulb.AddC(bulb.Brightness.C)
	}
	if driver.HasColor() {
		bulb.Saturation = characteristic.NewSaturation()
		if driver.CanReadSaturation() {
			bulb.Saturation.ValueRequestFunc = bulb.getSaturation
		}
		bulb.Saturation.SetValueRequestFunc = bulb.setSaturation
		bulb.Bulb.AddC(bulb.Saturation.C)
	}
	return bulb
}

func (bulb *Lightbulb) getPower(request *http.Request) (interface{}, int) {
	on, err := bulb.driver.GetPower(contextOf(request))
	if err != nil {
		return nil, statusFor(err)
	}
	return on, hap.JsonStatusSuccess
}

func (bulb *Lightbulb) setPower(value interface{}, request *http.Request) (interface{}, int) {
	on, ok := toBool(value)
	if !ok {
		bulb.log.Warn().Interface("value", value).Msg("Ignoring non-boolean power value")
		return nil, hap.JsonStatusInvalidValueInRequest
	}
	if _, err := bulb.driver.SetPower(contextOf(request), on); err != nil {
		return nil, statusFor(err)
	}
	return nil, hap.JsonStatusSuccess
}

func (bulb *Lightbulb) getBrightness(request *http.Request) (interface{}, int) {
	level, err := bulb.driver.GetBrightness(contextOf(request))
	if err != nil {
		return nil, statusFor(err)
	}
	return level, hap.JsonStatusSuccess
}

func (bulb *Lightbulb) setBrightness(value interface{}, request *http.Request) (interface{}, int) {
	level, ok := toInt(value)
	if !ok {
		return nil, hap.JsonStatusInvalidValueInRequest
	}
	if err := bulb.driver.SetBrightness(contextOf(request), level); err != nil {
		return nil, statusFor(err)
	}
	return nil, hap.JsonStatusSuccess
}

func (bulb *Lightbulb) getSaturation(request *http.Request) (interface{}, int) {
	saturation, err := bulb.driver.GetSaturation(contextOf(request))
	if err != nil {
		return nil, statusFor(err)
	}
	return float64(saturation), hap.JsonStatusSuccess
}

func (bulb *Lightbulb) setSaturation(value interface{}, request *http.Request) (interface{}, int) {
	level, ok := toInt(value)
	if !ok {
		return nil, hap.JsonStatusInvalidValueInRequest
	}
	if err := bulb.driver.SetSaturation(contextOf(request), level); err != nil {
		return nil, statusFor(err)
	}
	return nil, hap.JsonStatusSuccess
}

// statusFor maps driver errors onto HAP status codes. Misconfiguration is
// reported as a missing resource, everything else as the bulb being
// unreachable.
func statusFor(err error) int {
	switch {
	case err == nil:
		return hap.JsonStatusSuccess
	case errors.Is(err, httprgb.ErrConfigurationMissing),
		errors.Is(err, httprgb.ErrConfiguration),
		errors.Is(err, httprgb.ErrUnsupportedCapability):
		return hap.JsonStatusResourceDoesNotExist
	default:
		return hap.JsonStatusServiceCommunicationFailure
	}
}

func contextOf(request *http.Request) context.Context {
	if request == nil {
		return context.Background()
	}
	return request.Context()
}

func toBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case float64:
		return v != 0, true
	}
	return false, false
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(math.Round(v)), true
	}
	return 0, false
}
