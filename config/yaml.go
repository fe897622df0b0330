package config

import (
	"errors"
	"fmt"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"httprgb/types"
	"os"
	"reflect"
	"strings"
)

type endpointFromFile struct {
	Url  string `mapstructure:"url"`
	Body string `mapstructure:"body"`
}

type switchFromFile struct {
	Status   string           `mapstructure:"status"`
	PowerOn  endpointFromFile `mapstructure:"powerOn"`
	PowerOff endpointFromFile `mapstructure:"powerOff"`
}

type brightnessFromFile struct {
	Status     string `mapstructure:"status"`
	Url        string `mapstructure:"url"`
	HttpMethod string `mapstructure:"http_method"`
}

type colorFromFile struct {
	Status         string `mapstructure:"status"`
	Url            string `mapstructure:"url"`
	HttpMethod     string `mapstructure:"http_method"`
	Brightness     bool   `mapstructure:"brightness"`
	ChannelMax     int    `mapstructure:"channel_max"`
	FramePrefix    string `mapstructure:"frame_prefix"`
	FrameDelimiter string `mapstructure:"frame_delimiter"`
}

type accessoryFromFile struct {
	Name       string              `mapstructure:"name"`
	Room       string              `mapstructure:"room"`
	HttpMethod string              `mapstructure:"http_method"`
	Username   string              `mapstructure:"username"`
	Password   string              `mapstructure:"password"`
	Switch     *switchFromFile     `mapstructure:"switch"`
	Brightness *brightnessFromFile `mapstructure:"brightness"`
	Color      *colorFromFile      `mapstructure:"color"`
}

type accessoriesConfigFile struct {
	Accessories []accessoryFromFile `mapstructure:"accessories"`
}

// ReadAppConfig loads the accessory file and applies any credential overrides
// found in the process environment.
func ReadAppConfig(filename string) (*AppConfig, error) {
	fileBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file '%s': %w", filename, err)
	}
	appConfig, err := ParseAppConfig(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("could not load config file '%s': %w", filename, err)
	}
	environment := environ()
	for i := range appConfig.Accessories {
		if err := applyCredentialOverrides(&appConfig.Accessories[i], environment); err != nil {
			return nil, err
		}
	}
	return appConfig, nil
}

func ParseAppConfig(fileBytes []byte) (*AppConfig, error) {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(fileBytes, &raw); err != nil {
		return nil, fmt.Errorf("could not unmarshal config yaml: %w", err)
	}
	fromFile := accessoriesConfigFile{}
	if err := decode(raw, &fromFile); err != nil {
		return nil, err
	}

	appConfig := &AppConfig{Accessories: make([]types.DeviceConfig, 0, len(fromFile.Accessories))}
	seen := map[string]bool{}
	for i, accessory := range fromFile.Accessories {
		device, err := toDeviceConfig(accessory)
		if err != nil {
			return nil, fmt.Errorf("accessory %d: %w", i, err)
		}
		if seen[device.Name] {
			return nil, fmt.Errorf("accessory %d: duplicate name '%s'", i, device.Name)
		}
		seen[device.Name] = true
		appConfig.Accessories = append(appConfig.Accessories, device)
	}
	return appConfig, nil
}

func decode(raw map[string]interface{}, into *accessoriesConfigFile) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       endpointFromString,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           into,
	})
	if err != nil {
		return fmt.Errorf("could not build config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("could not decode accessories: %w", err)
	}
	return nil
}

// endpointFromString accepts "powerOn: http://..." as shorthand for
// "powerOn: {url: http://...}".
func endpointFromString(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(endpointFromFile{}) {
		return data, nil
	}
	return endpointFromFile{Url: data.(string)}, nil
}

func toDeviceConfig(accessory accessoryFromFile) (types.DeviceConfig, error) {
	if strings.TrimSpace(accessory.Name) == "" {
		return types.DeviceConfig{}, errors.New("name is required")
	}
	method := strings.ToUpper(lo.Ternary(accessory.HttpMethod == "", types.DefaultHttpMethod, accessory.HttpMethod))
	device := types.DeviceConfig{
		Name:        accessory.Name,
		Room:        accessory.Room,
		HttpMethod:  method,
		Credentials: types.Credentials{Username: accessory.Username, Password: accessory.Password},
	}
	if accessory.Switch != nil {
		device.Power = types.PowerConfig{
			StatusUrl: accessory.Switch.Status,
			On:        types.Endpoint{Url: accessory.Switch.PowerOn.Url, Body: accessory.Switch.PowerOn.Body},
			Off:       types.Endpoint{Url: accessory.Switch.PowerOff.Url, Body: accessory.Switch.PowerOff.Body},
		}
	}
	if accessory.Brightness != nil {
		device.Brightness = &types.BrightnessConfig{
			StatusUrl:  accessory.Brightness.Status,
			SetUrl:     lo.Ternary(accessory.Brightness.Url == "", accessory.Brightness.Status, accessory.Brightness.Url),
			HttpMethod: strings.ToUpper(lo.Ternary(accessory.Brightness.HttpMethod == "", method, accessory.Brightness.HttpMethod)),
		}
		if device.Brightness.SetUrl == "" {
			return types.DeviceConfig{}, fmt.Errorf("'%s': brightness needs a url or a status", accessory.Name)
		}
	}
	if accessory.Color != nil {
		color := accessory.Color
		if color.ChannelMax < 0 {
			return types.DeviceConfig{}, fmt.Errorf("'%s': color.channel_max must be positive, got %d", accessory.Name, color.ChannelMax)
		}
		prefix, _ := lo.Coalesce(color.FramePrefix, types.DefaultFramePrefix)
		delimiter, _ := lo.Coalesce(color.FrameDelimiter, types.DefaultFrameDelimiter)
		device.Color = &types.ColorConfig{
			StatusUrl:         color.Status,
			SetUrl:            lo.Ternary(color.Url == "", color.Status, color.Url),
			HttpMethod:        strings.ToUpper(lo.Ternary(color.HttpMethod == "", method, color.HttpMethod)),
			BrightnessCoupled: color.Brightness,
			ChannelMax:        lo.Ternary(color.ChannelMax == 0, types.DefaultChannelMax, color.ChannelMax),
			FramePrefix:       prefix,
			FrameDelimiter:    delimiter,
		}
	}
	return device, nil
}

func environ() map[string]string {
	return lo.SliceToMap(os.Environ(), func(entry string) (string, string) {
		key, value, _ := strings.Cut(entry, "=")
		return key, value
	})
}
