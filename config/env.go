package config

import (
	"fmt"
	"github.com/caarlos0/env/v11"
	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"httprgb/types"
	"strings"
)

const envPrefix = "HTTPRGB_"

func ReadSettings() (*Settings, error) {
	return readSettings(env.Options{})
}

func readSettings(options env.Options) (*Settings, error) {
	settings := &Settings{}
	if err := env.ParseWithOptions(settings, options); err != nil {
		return nil, fmt.Errorf("could not read settings from environment: %w", err)
	}
	return settings, nil
}

// CredentialEnvPrefix is where an accessory's credential overrides live,
// derived from its name: "Desk Lamp" reads HTTPRGB_DESK_LAMP_USERNAME.
func CredentialEnvPrefix(accessoryName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(slug.Make(accessoryName), "-", "_")) + "_"
}

func applyCredentialOverrides(device *types.DeviceConfig, environment map[string]string) error {
	override := credentialOverride{}
	options := env.Options{Prefix: CredentialEnvPrefix(device.Name), Environment: environment}
	if err := env.ParseWithOptions(&override, options); err != nil {
		return fmt.Errorf("could not read credential overrides for '%s': %w", device.Name, err)
	}
	device.Credentials.Username, _ = lo.Coalesce(override.Username, device.Credentials.Username)
	device.Credentials.Password, _ = lo.Coalesce(override.Password, device.Credentials.Password)
	return nil
}
