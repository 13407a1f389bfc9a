package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Config is the file and environment configuration of the CLI.
type Config struct {
	Layout LayoutConfig `mapstructure:"layout"`
	Render RenderConfig `mapstructure:"render"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
}

// LayoutConfig holds ingestion and layout defaults.
type LayoutConfig struct {
	NameKey  string  `mapstructure:"name_key"`
	SizeKey  string  `mapstructure:"size_key"`
	ValueKey string  `mapstructure:"value_key"`
	Width    float64 `mapstructure:"width"`
	Height   float64 `mapstructure:"height"`
	MinArea  float64 `mapstructure:"min_area"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Formats     []string `mapstructure:"formats"`
	FrameWidth  float64  `mapstructure:"frame_width"`
	FrameHeight float64  `mapstructure:"frame_height"`
	Caption     string   `mapstructure:"caption"`
}

// CacheConfig selects and tunes the layout cache.
type CacheConfig struct {
	Dir       string        `mapstructure:"dir"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
	Prefix    string        `mapstructure:"prefix"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StoreConfig selects the layout store of the serve command.
type StoreConfig struct {
	Dir             string `mapstructure:"dir"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// setDefaults registers every config key with its default. Registering all
// keys also lets TREEMAP_* variables override them.
func setDefaults(v *viper.Viper) {
	keys := tree.DefaultKeys()
	v.SetDefault("layout.name_key", keys.Name)
	v.SetDefault("layout.size_key", keys.Size)
	v.SetDefault("layout.value_key", keys.Value)
	v.SetDefault("layout.width", pipeline.DefaultWidth)
	v.SetDefault("layout.height", pipeline.DefaultHeight)
	v.SetDefault("layout.min_area", float64(pipeline.DefaultMinArea))

	v.SetDefault("render.formats", []string{pipeline.FormatHTML})
	v.SetDefault("render.frame_width", pipeline.DefaultFrameWidth)
	v.SetDefault("render.frame_height", pipeline.DefaultFrameHeight)
	v.SetDefault("render.caption", "")

	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", cache.DefaultTTL)
	v.SetDefault("cache.prefix", "")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("store.dir", "")
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "treemap")
	v.SetDefault("store.mongo_collection", "layouts")
}

// newViper creates a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TREEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// defaultConfig returns the configuration with no file or environment applied.
func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// loadConfig reads path, or searches for treemap.toml when path is empty.
// A missing file is only an error when path names it explicitly.
func loadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// =============================================================================
// Flag Precedence
// =============================================================================

// fallback assigns v to dst unless the named flag was set on the command line.
func fallback[T any](cmd *cobra.Command, flag string, dst *T, v T) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return
	}
	*dst = v
}

// applyLayoutConfig fills layout options from the configuration where the
// corresponding flags were not given.
func (cfg *Config) applyLayoutConfig(cmd *cobra.Command, opts *pipeline.Options) {
	fallback(cmd, "name-key", &opts.NameKey, cfg.Layout.NameKey)
	fallback(cmd, "size-key", &opts.SizeKey, cfg.Layout.SizeKey)
	fallback(cmd, "value-key", &opts.ValueKey, cfg.Layout.ValueKey)
	fallback(cmd, "width", &opts.Width, cfg.Layout.Width)
	fallback(cmd, "height", &opts.Height, cfg.Layout.Height)
	fallback(cmd, "min-area", &opts.MinArea, cfg.Layout.MinArea)
}

// applyRenderConfig fills render options from the configuration where the
// corresponding flags were not given.
func (cfg *Config) applyRenderConfig(cmd *cobra.Command, opts *pipeline.Options) {
	fallback(cmd, "format", &opts.Formats, cfg.Render.Formats)
	fallback(cmd, "frame-width", &opts.FrameWidth, cfg.Render.FrameWidth)
	fallback(cmd, "frame-height", &opts.FrameHeight, cfg.Render.FrameHeight)
	fallback(cmd, "caption", &opts.Caption, cfg.Render.Caption)
}
