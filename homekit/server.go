package homekit

import (
	"context"
	"fmt"
	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/rs/zerolog"
)

const bridgeName = "HTTP RGB Bridge"

// Bridge publishes every lightbulb behind one HomeKit bridge, so a single
// pairing covers all configured accessories.
type Bridge struct {
	Bridge *accessory.Bridge
	Bulbs  []*Lightbulb
	server *hap.Server
	log    zerolog.Logger
}

func NewBridge(drivers []Driver, storePath, pin string, logger zerolog.Logger) (*Bridge, error) {
	bridge := &Bridge{
		Bridge: accessory.NewBridge(accessory.Info{
			Name:         bridgeName,
			Manufacturer: Manufacturer,
			Model:        Model,
			Firmware:     Firmware,
		}),
		log: logger.With().Str("component", "homekit").Logger(),
	}
	accessories := make([]*accessory.A, 0, len(drivers))
	for _, driver := range drivers {
		bulb := NewLightbulb(driver, logger)
		bridge.Bulbs = append(bridge.Bulbs, bulb)
		accessories = append(accessories, bulb.A)
	}

	server, err := hap.NewServer(hap.NewFsStore(storePath), bridge.Bridge.A, accessories...)
	if err != nil {
		return nil, fmt.Errorf("could not create homekit server: %w", err)
	}
	server.Pin = pin
	bridge.server = server
	return bridge, nil
}

// Run serves HomeKit until ctx is done.
func (bridge *Bridge) Run(ctx context.Context) error {
	bridge.log.Info().Int("accessories", len(bridge.Bulbs)).Msg("Publishing homekit bridge")
	if err := bridge.server.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("homekit server stopped: %w", err)
	}
	bridge.log.Info().Msg("Homekit bridge stopped")
	return nil
}
