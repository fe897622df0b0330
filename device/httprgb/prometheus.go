package httprgb

import (
	"github.com/prometheus/client_golang/prometheus"
	"httprgb/types"
)

type prometheusMetrics struct {
	hasBrightness bool
	hasColor      bool
	commonLabels  prometheus.Labels

	powerOn  *prometheus.Gauge
	commands *prometheus.CounterVec

	brightness *prometheus.Gauge // only when brightness is supported
	saturation *prometheus.Gauge // only for colour bulbs
	warmWhite  *prometheus.Gauge // only for colour bulbs
	coolWhite  *prometheus.Gauge // only for colour bulbs
}

func registerMetrics(registry prometheus.Registerer, commonLabels prometheus.Labels, hasBrightness, hasColor bool) *prometheusMetrics {
	metrics := prometheusMetrics{
		hasBrightness: hasBrightness,
		hasColor:      hasColor,
		commonLabels:  commonLabels,

		powerOn:  types.NewGauge(registry, commonLabels, "httprgb", "device_turned_on_bool"),
		commands: types.NewCounterVec(registry, commonLabels, "httprgb", "commands_total", "operation", "outcome"),
	}
	if hasBrightness {
		metrics.brightness = types.NewGauge(registry, commonLabels, "httprgb", "bulb_brightness_percent")
	}
	if hasColor {
		metrics.saturation = types.NewGauge(registry, commonLabels, "httprgb", "bulb_saturation_percent")
		metrics.warmWhite = types.NewGauge(registry, commonLabels, "httprgb", "bulb_warm_white_level")
		metrics.coolWhite = types.NewGauge(registry, commonLabels, "httprgb", "bulb_cool_white_level")
	}
	metrics.resetToRogueValues()
	return &metrics
}

func (metrics *prometheusMetrics) recordCommand(operation string, err error) {
	metrics.commands.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func (metrics *prometheusMetrics) updatePower(on bool) {
	types.SetFromBool(metrics.powerOn, on)
}

func (metrics *prometheusMetrics) updateState(state *State) {
	brightness, saturation := state.Snapshot()
	types.SetFromInt(metrics.brightness, brightness)
	types.SetFromInt(metrics.saturation, saturation)
}

func (metrics *prometheusMetrics) updateFrame(frame ColorFrame) {
	types.SetFromInt(metrics.warmWhite, frame.WarmWhite)
	types.SetFromInt(metrics.coolWhite, frame.CoolWhite)
}

func (metrics *prometheusMetrics) resetToRogueValues() {
	types.SetIfPresent(metrics.powerOn, -1.0)
	types.SetIfPresent(metrics.brightness, -1.0)
	types.SetIfPresent(metrics.saturation, -1.0)
	types.SetIfPresent(metrics.warmWhite, -1.0)
	types.SetIfPresent(metrics.coolWhite, -1.0)
}
