package unreal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects how the host treats program output.
type Mode int

const (
	// ModeBuild runs programs without echoing results.
	ModeBuild Mode = 1
	// ModeDevelop echoes non-none results in the console.
	ModeDevelop Mode = 2
	// ModeNone additionally silences print and the input prompt.
	ModeNone Mode = 3
)

func (m Mode) valid() bool {
	return m == ModeBuild || m == ModeDevelop || m == ModeNone
}

func (m Mode) String() string {
	switch m {
	case ModeBuild:
		return "build"
	case ModeDevelop:
		return "develop"
	case ModeNone:
		return "none"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config controls numeric precision, execution bounds, output mode and the
// host hooks used by the built-in functions. Zero values are replaced by
// defaults.
type Config struct {
	MaxDecimalPlaces  int  `yaml:"max_decimal_places"`
	LnIterations      int  `yaml:"ln_iterations"`
	ExpIterations     int  `yaml:"exp_iterations"`
	RecursionLimit    int  `yaml:"recursion_limit"`
	MaxSequenceLength int  `yaml:"max_sequence_length"`
	Mode              Mode `yaml:"mode"`

	Stdout      io.Writer                         `yaml:"-"`
	Stdin       io.Reader                         `yaml:"-"`
	Sleep       func(time.Duration)               `yaml:"-"`
	ClearScreen func(w io.Writer) error           `yaml:"-"`
	ReadFile    func(name string) ([]byte, error) `yaml:"-"`
}

const (
	defaultDecimalPlaces = 300
	defaultLnIterations  = 30
	defaultExpIterations = 30

	defaultRecursionLimit    = 1000
	defaultMaxSequenceLength = 1 << 24
)

func (cfg Config) withDefaults() Config {
	if cfg.MaxDecimalPlaces <= 0 {
		cfg.MaxDecimalPlaces = defaultDecimalPlaces
	}
	if cfg.LnIterations <= 0 {
		cfg.LnIterations = defaultLnIterations
	}
	if cfg.ExpIterations <= 0 {
		cfg.ExpIterations = defaultExpIterations
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.MaxSequenceLength <= 0 {
		cfg.MaxSequenceLength = defaultMaxSequenceLength
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeDevelop
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	if cfg.ClearScreen == nil {
		cfg.ClearScreen = clearTerminal
	}
	if cfg.ReadFile == nil {
		cfg.ReadFile = os.ReadFile
	}
	return cfg
}

func clearTerminal(w io.Writer) error {
	_, err := io.WriteString(w, "\033[H\033[2J")
	return err
}

// LoadConfig reads a YAML settings file. Keys not listed on Config are
// rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML settings. Empty input yields the zero Config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if cfg.Mode != 0 && !cfg.Mode.valid() {
		return Config{}, fmt.Errorf("mode must be 1, 2 or 3, got %d", int(cfg.Mode))
	}
	if cfg.MaxDecimalPlaces < 0 {
		return Config{}, fmt.Errorf("max_decimal_places must not be negative")
	}
	if cfg.RecursionLimit < 0 {
		return Config{}, fmt.Errorf("recursion_limit must not be negative")
	}
	if cfg.MaxSequenceLength < 0 {
		return Config{}, fmt.Errorf("max_sequence_length must not be negative")
	}
	return cfg, nil
}
