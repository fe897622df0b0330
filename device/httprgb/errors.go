package httprgb

import "errors"

var (
	// ErrConfigurationMissing means a URL the operation needs was never configured.
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrConfiguration means a configured section has the wrong shape for the operation.
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	// ErrParse means the device answered with a body that is not the expected number or hex colour.
	ErrParse                 = errors.New("could not parse device response")
	ErrUnsupportedCapability = errors.New("unsupported capability")
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConfigurationMissing):
		return "configuration_missing"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrUnsupportedCapability):
		return "unsupported"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	default:
		return "error"
	}
}
