package types

import (
	"github.com/prometheus/client_golang/prometheus"
	"strconv"
	"strings"
)

func GenerateCommonLabels(dev *DeviceConfig) map[string]string {
	return map[string]string{
		"dev_room":       dev.Room,
		"dev_name":       dev.Name,
		"dev_full_name":  strings.TrimSpace(dev.Room + " " + dev.Name),
		"has_brightness": strconv.FormatBool(dev.HasBrightness()),
		"has_color":      strconv.FormatBool(dev.HasColor()),
	}
}

func NewGauge(registry prometheus.Registerer, commonLabels prometheus.Labels, ns, name string) *prometheus.Gauge {
	var gauge = prometheus.NewGauge(prometheus.GaugeOpts{Name: name, ConstLabels: commonLabels, Namespace: ns})
	registry.MustRegister(gauge)
	return &gauge
}

func NewCounterVec(registry prometheus.Registerer, commonLabels prometheus.Labels, ns, name string, labelNames ...string) *prometheus.CounterVec {
	var counter = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, ConstLabels: commonLabels, Namespace: ns}, labelNames)
	registry.MustRegister(counter)
	return counter
}

func SetIfPresent(gauge *prometheus.Gauge, value float64) {
	if gauge != nil {
		(*gauge).Set(value)
	}
}

func SetFromBool(gauge *prometheus.Gauge, value bool) {
	if value {
		SetIfPresent(gauge, 1.0)
	} else {
		SetIfPresent(gauge, 0.0)
	}
}

func SetFromInt(gauge *prometheus.Gauge, value int) {
	SetIfPresent(gauge, float64(value))
}
