package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	DriverTcell = "tcell"
	DriverFb    = "fb"
)

type Config struct {
	Driver      string
	DisplayPath string
	TouchPath   string
	Font        string
	FontSize    int
	Width       int
	Height      int
	CellWidth   int
	CellHeight  int
	Snapshot    string
	Trace       bool
	LogFile     string
	Taps        []Point
}

type Point struct {
	X, Y int
}

func Default() Config {
	return Config{
		Driver:      DriverTcell,
		DisplayPath: "/dev/fb0",
		TouchPath:   "/dev/input/touchscreen",
		Font:        "/usr/share/fonts/truetype/droid/DroidSans.ttf",
		FontSize:    12,
		Width:       320,
		Height:      240,
		CellWidth:   8,
		CellHeight:  16,
	}
}

var envVars = []struct {
	name  string
	apply func(*Config, string)
}{
	{"SLATE_DRIVER", func(c *Config, v string) { c.Driver = v }},
	{"SLATE_DEV_FB", func(c *Config, v string) { c.DisplayPath = v }},
	{"SLATE_DEV_TOUCH", func(c *Config, v string) { c.TouchPath = v }},
	{"SLATE_FONT", func(c *Config, v string) { c.Font = v }},
	{"SLATE_LOG", func(c *Config, v string) { c.LogFile = v }},
}

// Load starts from Default, applies the environment and then the
// command-line arguments (without the program name).
func Load(name string, args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	for _, env := range envVars {
		if value := getenv(env.name); value != "" {
			env.apply(&cfg, value)
		}
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.Driver, "driver", cfg.Driver, "display driver: tcell or fb")
	flags.StringVar(&cfg.DisplayPath, "fb", cfg.DisplayPath, "display device path")
	flags.StringVar(&cfg.TouchPath, "touch", cfg.TouchPath, "touch device path, empty disables touch")
	flags.StringVar(&cfg.Font, "font", cfg.Font, "button font file or gofont:regular")
	flags.IntVar(&cfg.FontSize, "font-size", cfg.FontSize, "button font size in points")
	flags.Var(sizeValue{&cfg.Width, &cfg.Height}, "size", "fb display size WxH")
	flags.Var(sizeValue{&cfg.CellWidth, &cfg.CellHeight}, "cell", "pixels per terminal cell WxH")
	flags.StringVar(&cfg.Snapshot, "snapshot", cfg.Snapshot, "fb: write every frame to this PNG file")
	flags.BoolVar(&cfg.Trace, "trace", cfg.Trace, "log every driver call")
	flags.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file")
	flags.Var((*tapsValue)(&cfg.Taps), "tap", "fb: inject a tap at x,y (repeatable)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, &HelpError{Usage: usage(flags)}
		}
		return Config{}, err
	}
	if flags.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	return cfg, cfg.Validate()
}

// HelpError is returned by Load when -h or -help is given. Usage holds the
// text to show.
type HelpError struct {
	Usage string
}

func (e *HelpError) Error() string {
	return flag.ErrHelp.Error()
}

func (e *HelpError) Unwrap() error {
	return flag.ErrHelp
}

func usage(flags *flag.FlagSet) string {
	builder := strings.Builder{}
	fmt.Fprintf(&builder, "Usage of %s:\n", flags.Name())
	flags.SetOutput(&builder)
	flags.PrintDefaults()
	return builder.String()
}

func (c Config) Validate() error {
	var errs []error
	switch c.Driver {
	case DriverTcell, DriverFb:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}
	if c.DisplayPath == "" {
		errs = append(errs, errors.New("empty display path"))
	}
	if c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid font size %d", c.FontSize))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("invalid cell size %dx%d", c.CellWidth, c.CellHeight))
	}
	if len(c.Taps) > 0 && c.Driver != DriverFb {
		errs = append(errs, fmt.Errorf("-tap needs the %s driver", DriverFb))
	}
	if c.Snapshot != "" && c.Driver != DriverFb {
		errs = append(errs, fmt.Errorf("-snapshot needs the %s driver", DriverFb))
	}
	return errors.Join(errs...)
}

type sizeValue struct {
	width, height *int
}

func (v sizeValue) String() string {
	if v.width == nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", *v.width, *v.height)
}

func (v sizeValue) Set(s string) error {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return fmt.Errorf("expected WxH, got %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return err
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return err
	}
	*v.width, *v.height = width, height
	return nil
}

type tapsValue []Point

func (v *tapsValue) String() string {
	if v == nil {
		return ""
	}
	parts := make([]string, len(*v))
	for i, p := range *v {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func (v *tapsValue) Set(s string) error {
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("expected x,y, got %q", s)
	}
	px, err := strconv.Atoi(strings.TrimSpace(x))
	if err != nil {
		return err
	}
	py, err := strconv.Atoi(strings.TrimSpace(y))
	if err != nil {
		return err
	}
	*v = append(*v, Point{px, py})
	return nil
}
