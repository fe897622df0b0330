package device

import (
	"context"
	"github.com/rs/zerolog"
	"httprgb/device/httprgb"
	"math/rand"
	"time"
)

// Refresher periodically reads back whatever each driver can read, keeping
// the caches and gauges current between HomeKit requests.
type Refresher struct {
	drivers  []*httprgb.Driver
	interval time.Duration
	jitter   time.Duration
	log      zerolog.Logger
}

func NewRefresher(drivers []*httprgb.Driver, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		drivers:  drivers,
		interval: interval,
		jitter:   2000 * time.Millisecond,
		log:      logger.With().Str("component", "refresher").Logger(),
	}
}

// Run blocks until ctx is done. A non-positive interval disables refreshing.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.log.Debug().Msg("Refreshing disabled")
		return nil
	}
	done := make(chan struct{}, len(r.drivers))
	for _, driver := range r.drivers {
		go func(driver *httprgb.Driver) {
			defer func() { done <- struct{}{} }()
			r.pollDriver(ctx, driver)
		}(driver)
	}
	for range r.drivers {
		<-done
	}
	return nil
}

func (r *Refresher) pollDriver(ctx context.Context, driver *httprgb.Driver) {
	r.log.Info().Str("device", driver.Name()).Dur("interval", r.interval).Msg("Starting ticker for polling")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Debug().Str("device", driver.Name()).Msg("Stopped polling")
			return
		case <-ticker.C:
			if r.jitter > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(rand.Int63n(int64(r.jitter)))):
				}
			}
			r.RefreshOnce(ctx, driver)
		}
	}
}

// RefreshOnce reads every readable attribute of one driver. Failures are
// already logged and counted by the driver, so they are only noted here.
func (r *Refresher) RefreshOnce(ctx context.Context, driver *httprgb.Driver) {
	failures := 0
	if driver.CanReadPower() {
		if _, err := driver.GetPower(ctx); err != nil {
			failures++
		}
	}
	if driver.HasBrightness() {
		if _, err := driver.GetBrightness(ctx); err != nil {
			failures++
		}
	}
	if driver.CanReadSaturation() {
		if _, err := driver.GetSaturation(ctx); err != nil {
			failures++
		}
	}
	if failures > 0 {
		r.log.Debug().Str("device", driver.Name()).Int("failures", failures).Msg("Could not refresh every attribute")
	}
}
