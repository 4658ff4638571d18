package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// DBPath is the SQLite file holding every imported table.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// Import parsing
	Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	// Sheet picks the XLSX sheet; the first sheet when empty.
	Sheet string `mapstructure:"sheet" yaml:"sheet,omitempty"`

	// LogFile mirrors the action log when set.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// Text chart size
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{"db_path", "delimiter", "decimal_separator", "sheet", "log_file", "chart_width", "chart_height"}

const (
	appDir = ".tablescope"
	dbDir  = "db"
	dbFile = "app.db"
)

// Dir returns ~/.tablescope.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, appDir), nil
}

// DefaultDBPath returns <install root>/db/app.db where the install root is the
// parent of the directory holding the running executable.
func DefaultDBPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	root := filepath.Dir(filepath.Dir(exe))
	return filepath.Join(root, dbDir, dbFile), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tablescope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLESCOPE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("db_path", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("sheet", "")
	v.SetDefault("log_file", "")
	v.SetDefault("chart_width", 72)
	v.SetDefault("chart_height", 12)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DBPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		c.DBPath = p
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the parsing settings and chart size.
func (c *Global) Validate() error {
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if _, err := c.DecimalRune(); err != nil {
		return err
	}
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		return fmt.Errorf("chart size must not be negative")
	}
	return nil
}

// DelimiterRune maps the delimiter setting to a rune. Zero means "pick from
// the file extension".
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// DecimalRune maps the decimal separator setting to a rune.
func (c *Global) DecimalRune() (rune, error) {
	switch strings.ToLower(strings.TrimSpace(c.DecimalSeparator)) {
	case "", ".", "dot", "point":
		return '.', nil
	case ",", "comma":
		return ',', nil
	default:
		return 0, fmt.Errorf("unsupported decimal_separator %q (use '.' or ',')", c.DecimalSeparator)
	}
}

// ParseDelimiter accepts a single character or one of the names tab,
// comma, semicolon, pipe. An empty value returns 0.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return 0, fmt.Errorf("unsupported delimiter %q", s)
	}
	return r[0], nil
}

// Set assigns a configuration key from its string form.
func (c *Global) Set(key, value string) error {
	switch key {
	case "db_path":
		c.DBPath = value
	case "delimiter":
		if _, err := ParseDelimiter(value); err != nil {
			return err
		}
		c.Delimiter = value
	case "decimal_separator":
		prev := c.DecimalSeparator
		c.DecimalSeparator = value
		if _, err := c.DecimalRune(); err != nil {
			c.DecimalSeparator = prev
			return err
		}
	case "sheet":
		c.Sheet = value
	case "log_file":
		c.LogFile = value
	case "chart_width", "chart_height":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		if key == "chart_width" {
			c.ChartWidth = n
		} else {
			c.ChartHeight = n
		}
	default:
		return fmt.Errorf("unknown key: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns the string form of a configuration key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "db_path":
		return c.DBPath, nil
	case "delimiter":
		return c.Delimiter, nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "sheet":
		return c.Sheet, nil
	case "log_file":
		return c.LogFile, nil
	case "chart_width":
		return fmt.Sprintf("%d", c.ChartWidth), nil
	case "chart_height":
		return fmt.Sprintf("%d", c.ChartHeight), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}
