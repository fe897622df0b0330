package device

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"httprgb/config"
	"httprgb/device/httprgb"
)

// NewDrivers builds one driver per configured accessory, all sharing a single
// HTTP transport.
func NewDrivers(appConfig *config.AppConfig, client httprgb.HttpClient, registry prometheus.Registerer, logger zerolog.Logger) ([]*httprgb.Driver, error) {
	drivers := make([]*httprgb.Driver, 0, len(appConfig.Accessories))
	for i := range appConfig.Accessories {
		dev := &appConfig.Accessories[i]
		driver, err := httprgb.NewDriver(dev, client, registry, logger)
		if err != nil {
			return nil, fmt.Errorf("could not create driver for %s: %w", dev.Name, err)
		}
		logger.Info().
			Str("device", dev.Name).
			Str("room", dev.Room).
			Bool("power_status", dev.CanReadPower()).
			Bool("brightness", dev.HasBrightness()).
			Bool("color", dev.HasColor()).
			Msg("Configured accessory")
		drivers = append(drivers, driver)
	}
	return drivers, nil
}
