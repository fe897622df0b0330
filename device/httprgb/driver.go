package httprgb

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"httprgb/colormath"
	"httprgb/types"
)

// Driver exposes the logical operations of one bulb. Each operation either
// answers from the cache or sends exactly one HTTP request; nothing is queued
// or retried, and a failed operation leaves the driver usable.
type Driver struct {
	deviceConfig *types.DeviceConfig
	state        *State
	dispatcher   *Dispatcher
	metrics      *prometheusMetrics
	log          zerolog.Logger
}

func NewDriver(config *types.DeviceConfig, client HttpClient, registry prometheus.Registerer, logger zerolog.Logger) (*Driver, error) {
	if config == nil {
		return nil, errors.New("device config is required")
	}
	if client == nil {
		return nil, fmt.Errorf("no http client given for %s", config.Name)
	}
	driver := &Driver{
		deviceConfig: config,
		state:        newState(config.HasBrightness()),
		dispatcher:   NewDispatcher(config, client),
		metrics: registerMetrics(
			registry,
			types.GenerateCommonLabels(config),
			config.HasBrightness(), config.HasColor()),
		log: logger.With().Str("device", config.Name).Logger(),
	}
	driver.metrics.updateState(driver.state)
	return driver, nil
}

func (dev *Driver) Name() string {
	return dev.deviceConfig.Name
}

func (dev *Driver) CanReadPower() bool {
	return dev.deviceConfig.CanReadPower()
}

func (dev *Driver) HasBrightness() bool {
	return dev.deviceConfig.HasBrightness()
}

func (dev *Driver) HasColor() bool {
	return dev.deviceConfig.HasColor()
}

func (dev *Driver) CanReadSaturation() bool {
	return dev.deviceConfig.HasColor() && dev.deviceConfig.Color.StatusUrl != ""
}

// State is the driver's cache. It is exposed for inspection; writes should go
// through the Set operations.
func (dev *Driver) State() *State {
	return dev.state
}

func (dev *Driver) Identify(_ context.Context) error {
	dev.log.Info().Msg("Identify requested")
	return nil
}

func (dev *Driver) GetPower(ctx context.Context) (bool, error) {
	if !dev.deviceConfig.CanReadPower() {
		return false, dev.failed("get_power", fmt.Errorf("%w: no switch.status url defined", ErrConfigurationMissing))
	}
	on, err := dev.dispatcher.ReadPower(ctx)
	if err != nil {
		return false, dev.failed("get_power", err)
	}
	dev.metrics.recordCommand("get_power", nil)
	dev.metrics.updatePower(on)
	dev.log.Debug().Bool("on", on).Msg("Power read")
	return on, nil
}

// SetPower returns the raw response body, which callers are free to ignore.
func (dev *Driver) SetPower(ctx context.Context, on bool) (string, error) {
	if !dev.deviceConfig.CanSetPower() {
		return "", dev.failed("set_power", fmt.Errorf("%w: the 'switch' section needs both powerOn and powerOff", ErrConfigurationMissing))
	}
	body, err := dev.dispatcher.SendPower(ctx, on)
	if err != nil {
		return "", dev.failed("set_power", err)
	}
	dev.metrics.recordCommand("set_power", nil)
	dev.metrics.updatePower(on)
	dev.log.Info().Str("power", onOff(on)).Msg("Power set")
	return body, nil
}

func (dev *Driver) GetBrightness(ctx context.Context) (int, error) {
	if !dev.deviceConfig.HasBrightness() {
		return 0, dev.failed("get_brightness", fmt.Errorf("%w: no 'brightness' defined", ErrUnsupportedCapability))
	}
	if dev.deviceConfig.Brightness == nil || dev.deviceConfig.Brightness.StatusUrl == "" {
		return dev.state.Brightness(), nil
	}
	level, err := dev.dispatcher.ReadBrightness(ctx)
	if err != nil {
		return 0, dev.failed("get_brightness", err)
	}
	dev.state.SetBrightness(level)
	dev.metrics.recordCommand("get_brightness", nil)
	dev.metrics.updateState(dev.state)
	dev.log.Debug().Int("level", level).Msg("Brightness read")
	return level, nil
}

// SetBrightness caches the level before sending, so a colour frame built by a
// concurrent SetSaturation already carries it. Colour bulbs get a full colour
// frame; everything else gets the dedicated brightness command.
func (dev *Driver) SetBrightness(ctx context.Context, level int) error {
	if !dev.deviceConfig.HasBrightness() {
		return dev.failed("set_brightness", fmt.Errorf("%w: no 'brightness' defined", ErrUnsupportedCapability))
	}
	level = colormath.ClampPercent(level)
	dev.state.SetBrightness(level)
	dev.metrics.updateState(dev.state)

	if dev.deviceConfig.BrightnessRoutesThroughColor() {
		return dev.sendColorFrame(ctx, "set_brightness")
	}
	if err := dev.dispatcher.SendBrightness(ctx, level); err != nil {
		return dev.failed("set_brightness", err)
	}
	dev.metrics.recordCommand("set_brightness", nil)
	dev.log.Info().Int("level", level).Msg("Brightness set")
	return nil
}

func (dev *Driver) GetSaturation(ctx context.Context) (int, error) {
	if dev.deviceConfig.Color == nil || dev.deviceConfig.Color.StatusUrl == "" {
		return 0, dev.failed("get_saturation", fmt.Errorf("%w: 'color' section has no status url", ErrConfiguration))
	}
	saturation, err := dev.dispatcher.ReadSaturation(ctx)
	if err != nil {
		return 0, dev.failed("get_saturation", err)
	}
	dev.state.SetSaturation(saturation)
	dev.metrics.recordCommand("get_saturation", nil)
	dev.metrics.updateState(dev.state)
	dev.log.Debug().Int("saturation", saturation).Msg("Saturation read")
	return saturation, nil
}

func (dev *Driver) SetSaturation(ctx context.Context, level int) error {
	if dev.deviceConfig.Color == nil || dev.deviceConfig.Color.SetUrl == "" {
		return dev.failed("set_saturation", fmt.Errorf("%w: 'color' section has no url", ErrConfiguration))
	}
	dev.state.SetSaturation(level)
	dev.metrics.updateState(dev.state)
	dev.log.Debug().Int("saturation", dev.state.Saturation()).Msg("Caching saturation")
	return dev.sendColorFrame(ctx, "set_saturation")
}

func (dev *Driver) sendColorFrame(ctx context.Context, operation string) error {
	frame, err := dev.dispatcher.SendColorFrame(ctx, dev.state)
	if err != nil {
		return dev.failed(operation, err)
	}
	dev.metrics.recordCommand(operation, nil)
	dev.metrics.updateFrame(frame)
	dev.log.Info().
		Int("warm_white", frame.WarmWhite).
		Int("cool_white", frame.CoolWhite).
		Str("frame", frame.Encoded).
		Msg("Colour frame sent")
	return nil
}

func (dev *Driver) failed(operation string, err error) error {
	dev.metrics.recordCommand(operation, err)
	dev.log.Warn().Err(err).Str("operation", operation).Msg("Operation failed")
	return err
}
