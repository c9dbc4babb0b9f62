package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fieldrover/routeman/core/metrics"
	"github.com/fieldrover/routeman/core/route"
	"github.com/fieldrover/routeman/infra/mqtt"
)

type Config struct {
	MQTT    mqtt.Config    `json:"mqtt"`
	Route   route.Config   `json:"route"`
	Metrics metrics.Config `json:"metrics"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("RM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.MQTT.SetDefaults()
	cfg.Route.SetDefaults()
	if err := ValidateRoute(cfg.Route); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateRoute checks the route section. An unknown mode or a list-backed
// mode without poses is a configuration error; the dispatch loop must not
// start.
func ValidateRoute(r route.Config) error {
	mode, err := route.ParseMode(r.Mode)
	if err != nil {
		return err
	}
	if mode != route.ModeDynamic && len(r.Poses) == 0 {
		return fmt.Errorf("route mode %s requires poses", mode)
	}
	return nil
}
