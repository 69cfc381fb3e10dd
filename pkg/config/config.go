package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/budgetu/pkg/export/xlsx"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/normalize"
	"github.com/yurifrl/budgetu/pkg/report"
	"github.com/yurifrl/budgetu/pkg/service"
)

// EnvPrefix prefixes every environment override, e.g. BUDGETU_EXPORT_TOP_N.
const EnvPrefix = "BUDGETU"

type Config struct {
	Locale format.Locale        `mapstructure:"locale"`
	Number normalize.Separators `mapstructure:"number"`
	Export Export               `mapstructure:"export"`
	Output Output               `mapstructure:"output"`
	Log    Log                  `mapstructure:"log"`
	Server Server               `mapstructure:"server"`
}

type Export struct {
	xlsx.Options `mapstructure:",squash"`
	Title        string `mapstructure:"title"`
}

type Output struct {
	Dir string `mapstructure:"dir"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

// flagKeys binds command line flags to configuration keys.
var flagKeys = map[string]string{
	"out":       "output.dir",
	"log-level": "log.level",
	"title":     "export.title",
	"top-n":     "export.top_n",
	"port":      "server.port",
}

func defaults(v *viper.Viper) {
	v.SetDefault("locale.currency_symbol", format.Indonesian.Symbol)
	v.SetDefault("locale.thousands", format.Indonesian.Thousands)
	v.SetDefault("locale.decimal", format.Indonesian.Decimal)
	v.SetDefault("number.thousands", "")
	v.SetDefault("number.decimal", "")
	v.SetDefault("export.title", report.DefaultTitle)
	v.SetDefault("export.top_n", xlsx.DefaultOptions.TopN)
	v.SetDefault("export.highlight_actual", xlsx.DefaultOptions.HighlightActual)
	v.SetDefault("export.highlight_remaining", xlsx.DefaultOptions.HighlightRemaining)
	v.SetDefault("export.bar_anchor", xlsx.DefaultOptions.BarAnchor)
	v.SetDefault("export.pie_anchor", xlsx.DefaultOptions.PieAnchor)
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.port", "3000")
}

// Build loads the configuration from defaults, an optional .env file, the
// config file, BUDGETU_* environment variables and finally flags, in
// increasing order of precedence. An empty cfgFile searches for budgetu.yaml
// in the working directory and $HOME/.config/budgetu.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("budgetu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/budgetu")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if err := c.Locale.Validate(); err != nil {
		problems = append(problems, fmt.Sprintf("locale: %v", err))
	}

	for name, sep := range map[string]string{"number.thousands": c.Number.Thousands, "number.decimal": c.Number.Decimal} {
		if len([]rune(sep)) > 1 {
			problems = append(problems, fmt.Sprintf("invalid %s %q: must be at most one character", name, sep))
		}
	}
	if c.Number.Thousands != "" && c.Number.Thousands == c.Number.Decimal {
		problems = append(problems, "number.thousands and number.decimal must differ")
	}

	if c.Export.TopN < 0 {
		problems = append(problems, fmt.Sprintf("invalid export.top_n %d: must not be negative", c.Export.TopN))
	}
	for name, color := range map[string]string{
		"export.highlight_actual":    c.Export.HighlightActual,
		"export.highlight_remaining": c.Export.HighlightRemaining,
	} {
		if color != "" && !hexColor.MatchString(color) {
			problems = append(problems, fmt.Sprintf("invalid %s %q: must be a 6 digit hex color", name, color))
		}
	}
	for name, cell := range map[string]string{
		"export.bar_anchor": c.Export.BarAnchor,
		"export.pie_anchor": c.Export.PieAnchor,
	} {
		if cell == "" {
			continue
		}
		if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
			problems = append(problems, fmt.Sprintf("invalid %s %q: must be a cell reference", name, cell))
		}
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Service returns the settings the report pipeline needs.
func (c *Config) Service() service.Config {
	return service.Config{
		Title:      c.Export.Title,
		Separators: c.Number,
		Locale:     c.Locale,
		Export:     c.Export.Options,
	}
}

// Logger builds the process logger at the configured level.
func (c *Config) Logger(prefix string) *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
