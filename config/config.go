package config

import (
	"encoding/json"
	"image"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. FRAMEAIDE_QUALITY.
const EnvPrefix = "FRAMEAIDE"

// Config holds runtime configuration for the frame grabber.
// Fields may be loaded from a JSON file, the environment and command-line
// flags, in increasing order of precedence.
type Config struct {
	Debug bool `json:"debug" mapstructure:"debug"`

	// Source is "screen", a still image path (canvas) or a .gif path (video).
	Source string `json:"source" mapstructure:"source"`
	FPS    int    `json:"fps" mapstructure:"fps"`

	// Encoding
	Mime    string  `json:"mime" mapstructure:"mime"`
	Quality float64 `json:"quality" mapstructure:"quality"`

	// Delivery
	Name      string `json:"name" mapstructure:"name"`
	OutputDir string `json:"output_dir" mapstructure:"output_dir"`
	Download  bool   `json:"download" mapstructure:"download"`
	Report    bool   `json:"report" mapstructure:"report"`

	// Sequence
	Frames   int           `json:"frames" mapstructure:"frames"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
	// Warmup bounds the wait for the first frame of a live source; zero
	// waits until the capture is cancelled.
	Warmup time.Duration `json:"warmup" mapstructure:"warmup"`

	// Selection rectangle for screen sources; zero size means full screen.
	SelectionX int `json:"selection_x" mapstructure:"selection_x"`
	SelectionY int `json:"selection_y" mapstructure:"selection_y"`
	SelectionW int `json:"selection_w" mapstructure:"selection_w"`
	SelectionH int `json:"selection_h" mapstructure:"selection_h"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:      false,
		Source:     "screen",
		FPS:        10,
		Mime:       "png",
		Quality:    1,
		Name:       "frame",
		OutputDir:  "",
		Download:   true,
		Report:     false,
		Frames:     1,
		Interval:   time.Second,
		Warmup:     2 * time.Second,
		SelectionX: 0,
		SelectionY: 0,
		SelectionW: 0,
		SelectionH: 0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	c.Mime = strings.ToLower(strings.TrimSpace(c.Mime))
	switch c.Mime {
	case "png", "jpeg", "jpg", "webp":
	case "":
		c.Mime = "png"
	default:
		return errors.Errorf("config: unsupported mime %q", c.Mime)
	}
	if c.Source == "" {
		c.Source = "screen"
	}
	if c.FPS <= 0 {
		c.FPS = 10
	}
	if c.FPS > 60 {
		c.FPS = 60
	}
	if c.Quality < 0 {
		c.Quality = 0
	}
	if c.Quality > 1 {
		c.Quality = 1
	}
	if c.Name == "" {
		c.Name = "frame"
	}
	if c.Frames < 1 {
		c.Frames = 1
	}
	if c.Interval < 0 {
		c.Interval = 0
	}
	if c.Warmup < 0 {
		c.Warmup = 0
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	return nil
}

// Selection returns the configured screen rectangle or nil for full screen.
func (c *Config) Selection() *image.Rectangle {
	if c.SelectionW <= 0 || c.SelectionH <= 0 {
		return nil
	}
	r := image.Rect(c.SelectionX, c.SelectionY, c.SelectionX+c.SelectionW, c.SelectionY+c.SelectionH)
	return &r
}

// Load builds a Config from defaults, the JSON file at path (ignored when
// path is empty or the file does not exist), FRAMEAIDE_* environment
// variables and the changed flags in fs, whose names must match the
// mapstructure keys with '-' in place of '_'.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	setDefaults(v, def)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if alias, ok := flagAliases[key]; ok {
				key = alias
			}
			if isKnownKey(key) {
				_ = v.BindPFlag(key, f)
			}
		})
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(errors.Cause(err)) && !isNotFound(err) {
				return def, errors.Wrapf(err, "read config %s", path)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return def, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return def, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("debug", c.Debug)
	v.SetDefault("source", c.Source)
	v.SetDefault("fps", c.FPS)
	v.SetDefault("mime", c.Mime)
	v.SetDefault("quality", c.Quality)
	v.SetDefault("name", c.Name)
	v.SetDefault("output_dir", c.OutputDir)
	v.SetDefault("download", c.Download)
	v.SetDefault("report", c.Report)
	v.SetDefault("frames", c.Frames)
	v.SetDefault("interval", c.Interval)
	v.SetDefault("warmup", c.Warmup)
	v.SetDefault("selection_x", c.SelectionX)
	v.SetDefault("selection_y", c.SelectionY)
	v.SetDefault("selection_w", c.SelectionW)
	v.SetDefault("selection_h", c.SelectionH)
}

// flagAliases maps short flag names onto config keys.
var flagAliases = map[string]string{
	"out": "output_dir",
}

func isKnownKey(key string) bool {
	switch key {
	case "debug", "source", "fps", "mime", "quality", "name", "output_dir",
		"download", "report", "frames", "interval", "warmup",
		"selection_x", "selection_y", "selection_w", "selection_h":
		return true
	}
	return false
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf)
}
