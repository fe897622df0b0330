package types

const (
	DefaultHttpMethod     = "GET"
	DefaultChannelMax     = 255
	DefaultFramePrefix    = "WR"
	DefaultFrameDelimiter = "-"
)

type DeviceConfig struct {
	Name        string
	Room        string
	HttpMethod  string // e.g. GET, POST, PUT
	Credentials Credentials
	Power       PowerConfig
	Brightness  *BrightnessConfig // nil when the device has no dedicated brightness endpoint
	Color       *ColorConfig      // nil when the device has no colour endpoint
}

type Credentials struct {
	Username string
	Password string
}

func (c Credentials) IsEmpty() bool {
	return c.Username == "" && c.Password == ""
}

// Endpoint is the canonical form of a config value that may be written either
// as a bare URL or as {url, body}.
type Endpoint struct {
	Url  string
	Body string
}

type PowerConfig struct {
	StatusUrl string // empty when power state cannot be read back
	On        Endpoint
	Off       Endpoint
}

type BrightnessConfig struct {
	StatusUrl  string // e.g. http://x.x.x.x/brightness
	SetUrl     string // e.g. http://x.x.x.x/brightness?level=%s
	HttpMethod string
}

type ColorConfig struct {
	StatusUrl         string // body is six hex digits, e.g. AABBCC
	SetUrl            string // e.g. http://x.x.x.x/color?frame=%s
	HttpMethod        string
	BrightnessCoupled bool // the colour frame provides brightness support
	ChannelMax        int
	FramePrefix       string
	FrameDelimiter    string
}

func (dev *DeviceConfig) CanReadPower() bool {
	return dev.Power.StatusUrl != ""
}

func (dev *DeviceConfig) CanSetPower() bool {
	return dev.Power.On.Url != "" && dev.Power.Off.Url != ""
}

// HasBrightness is true for a dedicated brightness section, or for a colour
// section flagged as carrying brightness.
func (dev *DeviceConfig) HasBrightness() bool {
	return dev.Brightness != nil || (dev.Color != nil && dev.Color.BrightnessCoupled)
}

func (dev *DeviceConfig) HasColor() bool {
	return dev.Color != nil
}

// BrightnessRoutesThroughColor reports whether brightness changes are sent as
// a colour frame. Any colour section wins over a dedicated brightness url.
func (dev *DeviceConfig) BrightnessRoutesThroughColor() bool {
	return dev.Color != nil
}
