// Package config holds the settings shared by the quad commands. Values come
// from defaults, an optional TOML file and command-line flags, in that order
// of precedence.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/batch"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the command configuration.
type Config struct {
	Width           int        `toml:"width"`
	Height          int        `toml:"height"`
	Title           string     `toml:"title"`
	InitialCapacity int        `toml:"initial_capacity"`
	ClearColor      [4]float32 `toml:"clear_color"`
	FontPath        string     `toml:"font_path"`
	FontSize        float64    `toml:"font_size"`
	Output          string     `toml:"output"`
	Backend         string     `toml:"backend"`
	Lines           []string   `toml:"lines"`
}

// Default returns the built-in configuration: an 800x600 window cleared to
// dark green, drawing with the embedded Go font at 16px.
func Default() Config {
	c := batch.ClearGreen
	return Config{
		Width:           800,
		Height:          600,
		Title:           "quad batch",
		InitialCapacity: batch.DefaultCapacity,
		ClearColor:      [4]float32{c.R, c.G, c.B, c.A},
		FontSize:        16,
		Output:          "quads.png",
		Backend:         "software",
		Lines: []string{
			"Quad batch renderer",
			"One draw call per frame, six vertices per quad.",
			"Scroll with the wheel or drag with the left button.",
			"Press Q or Escape to quit.",
		},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := c.decode(data); err != nil {
		return c, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return c, nil
}

func (c *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Clear returns the clear color.
func (c Config) Clear() batch.Color {
	return batch.RGBA(c.ClearColor[0], c.ClearColor[1], c.ClearColor[2], c.ClearColor[3])
}

// Validate checks that sizes are positive and colors are in range.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height)
	}
	if c.InitialCapacity <= 0 {
		return fmt.Errorf("%w: initial capacity %d must be positive", ErrInvalid, c.InitialCapacity)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("%w: font size %v must be positive", ErrInvalid, c.FontSize)
	}
	if c.Backend == "" {
		return fmt.Errorf("%w: backend must be named (or \"auto\")", ErrInvalid)
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear color component %d = %v outside [0,1]", ErrInvalid, i, v)
		}
	}
	return nil
}

// Flags binds command-line flags to a Config.
type Flags struct {
	fs     *flag.FlagSet
	config *string
	set    Config
	clear  colorFlag
}

// BindFlags registers flags on fs. After fs.Parse, call Resolve to merge
// the config file and the flags the user set.
func BindFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs, set: d, clear: colorFlag(d.ClearColor)}
	f.config = fs.String("config", "", "TOML config file")
	fs.IntVar(&f.set.Width, "width", d.Width, "window or image width")
	fs.IntVar(&f.set.Height, "height", d.Height, "window or image height")
	fs.StringVar(&f.set.Title, "title", d.Title, "window title")
	fs.IntVar(&f.set.InitialCapacity, "capacity", d.InitialCapacity, "initial quad store capacity")
	fs.Var(&f.clear, "clear", "clear color as r,g,b[,a] in [0,1]")
	fs.StringVar(&f.set.FontPath, "font", d.FontPath, "TTF/OTF font file (default: embedded Go font)")
	fs.Float64Var(&f.set.FontSize, "font-size", d.FontSize, "font size in pixels")
	fs.StringVar(&f.set.Output, "output", d.Output, "output PNG file")
	fs.StringVar(&f.set.Backend, "backend", d.Backend, "render device: software, wgpu or auto")
	return f
}

// Resolve returns the defaults, overlaid by the config file if -config was
// given, overlaid by every flag set explicitly on the command line.
func (f *Flags) Resolve() (Config, error) {
	c := Default()
	if *f.config != "" {
		loaded, err := Load(*f.config)
		if err != nil {
			return c, err
		}
		c = loaded
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "width":
			c.Width = f.set.Width
		case "height":
			c.Height = f.set.Height
		case "title":
			c.Title = f.set.Title
		case "capacity":
			c.InitialCapacity = f.set.InitialCapacity
		case "clear":
			c.ClearColor = [4]float32(f.clear)
		case "font":
			c.FontPath = f.set.FontPath
		case "font-size":
			c.FontSize = f.set.FontSize
		case "output":
			c.Output = f.set.Output
		case "backend":
			c.Backend = f.set.Backend
		}
	})
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// colorFlag parses "r,g,b" or "r,g,b,a".
type colorFlag [4]float32

func (c *colorFlag) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, 4)
	for i, v := range c {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

func (c *colorFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("want r,g,b or r,g,b,a, got %q", s)
	}
	v := [4]float32{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	*c = v
	return nil
}
