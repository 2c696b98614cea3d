package resolver

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the lookup tables the resolver iterates: the geographic
// fallback chain tried after the requested country, and fuel alias groups.
// Both are data, so new jurisdictions or fuel spellings ship as configuration
// rather than code changes.
type Config struct {
	CountryFallback []string            `mapstructure:"countryFallback"`
	FuelAliases     map[string][]string `mapstructure:"fuelAliases"`
}

func DefaultConfig() Config {
	return Config{
		CountryFallback: []string{"United Kingdom", "European Union", "Global"},
		FuelAliases: map[string][]string{
			"Diesel":      {"Diesel Oil", "Automotive Diesel", "Gas Oil"},
			"Petrol":      {"Motor Gasoline", "Gasoline", "Unleaded Petrol"},
			"Natural Gas": {"NG", "Pipeline Natural Gas"},
			"LPG":         {"Liquefied Petroleum Gas", "Propane"},
			"Fuel Oil":    {"Heavy Fuel Oil", "Residual Fuel Oil"},
			"Kerosene":    {"Jet Kerosene", "Burning Kerosene"},
			"Coal":        {"Bituminous Coal", "Sub-Bituminous Coal"},
		},
	}
}

// AliasesFor expands a fuel name to its alias group, the requested spelling
// first. Matching is case-insensitive against both keys and alias entries.
func (c Config) AliasesFor(fuelType string) []string {
	trimmed := strings.TrimSpace(fuelType)
	names := []string{trimmed}
	seen := map[string]bool{strings.ToLower(trimmed): true}

	appendName := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		names = append(names, strings.TrimSpace(name))
	}

	for canonical, aliases := range c.FuelAliases {
		group := append([]string{canonical}, aliases...)
		for _, member := range group {
			if strings.EqualFold(member, trimmed) {
				for _, name := range group {
					appendName(name)
				}
				break
			}
		}
	}
	return names
}

// CountryChain returns the fallback order for a primary country: the country
// itself followed by the configured chain, duplicates removed.
func (c Config) CountryChain(primary string) []string {
	chain := make([]string, 0, len(c.CountryFallback)+1)
	seen := map[string]bool{}
	for _, country := range append([]string{primary}, c.CountryFallback...) {
		key := strings.ToLower(strings.TrimSpace(country))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		chain = append(chain, strings.TrimSpace(country))
	}
	return chain
}

// ConfigHolder serves the current resolver configuration and hot-reloads it
// when calculation.yml changes on disk.
type ConfigHolder struct {
	current atomic.Value // holds Config
}

func NewConfigHolder(logger *zap.Logger) (*ConfigHolder, error) {
	log := logger.Named("calculation.config")
	v := viper.New()

	v.SetConfigName("calculation")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/carbonledger/config")
	v.AddConfigPath("/etc/carbonledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CARBONLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultConfig()
		v.SetDefault("resolver.countryFallback", defaults.CountryFallback)
		v.SetDefault("resolver.fuelAliases", defaults.FuelAliases)
	}

	var cfg Config
	if err := v.UnmarshalKey("resolver", &cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Config
		if err := v.UnmarshalKey("resolver", &updated); err != nil {
			log.Warn("config reload failed", zap.Error(err))
			return
		}
		if err := validateConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("resolver config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *ConfigHolder) Get() Config {
	return h.current.Load().(Config)
}

func validateConfig(cfg Config) error {
	if len(cfg.CountryFallback) == 0 {
		return errors.New("resolver.countryFallback cannot be empty")
	}
	return nil
}
