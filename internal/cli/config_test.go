package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Layout.NameKey != "Name" || cfg.Layout.SizeKey != "Size" {
		t.Errorf("keys = %q/%q, want Name/Size", cfg.Layout.NameKey, cfg.Layout.SizeKey)
	}
	if cfg.Layout.Width != pipeline.DefaultWidth || cfg.Layout.Height != pipeline.DefaultHeight {
		t.Errorf("region = %gx%g", cfg.Layout.Width, cfg.Layout.Height)
	}
	if cfg.Layout.MinArea != pipeline.DefaultMinArea {
		t.Errorf("min area = %g, want %g", cfg.Layout.MinArea, float64(pipeline.DefaultMinArea))
	}
	if len(cfg.Render.Formats) != 1 || cfg.Render.Formats[0] != pipeline.FormatHTML {
		t.Errorf("formats = %v, want [html]", cfg.Render.Formats)
	}
	if cfg.Cache.TTL != cache.DefaultTTL {
		t.Errorf("cache ttl = %v, want %v", cfg.Cache.TTL, cache.DefaultTTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treemap.toml")
	body := `
[layout]
size_key = "bytes"
width = 400
height = 300

[render]
formats = ["svg", "text"]
caption = "Disk usage"

[cache]
ttl = "1h"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Layout.SizeKey != "bytes" {
		t.Errorf("size key = %q, want bytes", cfg.Layout.SizeKey)
	}
	if cfg.Layout.NameKey != "Name" {
		t.Errorf("name key = %q, want default Name", cfg.Layout.NameKey)
	}
	if cfg.Layout.Width != 400 || cfg.Layout.Height != 300 {
		t.Errorf("region = %gx%g, want 400x300", cfg.Layout.Width, cfg.Layout.Height)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[1] != "text" {
		t.Errorf("formats = %v", cfg.Render.Formats)
	}
	if cfg.Render.Caption != "Disk usage" {
		t.Errorf("caption = %q", cfg.Render.Caption)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("ttl = %v, want 1h", cfg.Cache.TTL)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("TREEMAP_LAYOUT_WIDTH", "640")
	t.Setenv("TREEMAP_SERVER_ADDR", ":9090")

	path := filepath.Join(t.TempDir(), "treemap.toml")
	if err := os.WriteFile(path, []byte("[layout]\nwidth = 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Layout.Width != 640 {
		t.Errorf("width = %g, want 640 from the environment", cfg.Layout.Width)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Layout.SizeKey = "bytes"
	cfg.Layout.Width = 400
	cfg.Render.Caption = "from config"

	var (
		src sourceFlags
		out outputFlags
	)
	cmd := &cobra.Command{Use: "test"}
	src.register(cmd)
	out.register(cmd)
	if err := cmd.ParseFlags([]string{"--width", "250", "--caption", "from flag", "-f", "svg,json"}); err != nil {
		t.Fatal(err)
	}

	opts, err := src.options(cmd, cfg, "disk.xml")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if err := out.apply(cmd, cfg, &opts); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if opts.SizeKey != "bytes" {
		t.Errorf("size key = %q, want bytes from config", opts.SizeKey)
	}
	if opts.Width != 250 {
		t.Errorf("width = %g, want 250 from flag", opts.Width)
	}
	if opts.Caption != "from flag" {
		t.Errorf("caption = %q, want flag value", opts.Caption)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != "svg" || opts.Formats[1] != "json" {
		t.Errorf("formats = %v, want [svg json]", opts.Formats)
	}
}

func TestSourceFlagsRejectBadSubtree(t *testing.T) {
	var src sourceFlags
	cmd := &cobra.Command{Use: "test"}
	src.register(cmd)
	if err := cmd.ParseFlags([]string{"--subtree", "usr//lib"}); err != nil {
		t.Fatal(err)
	}
	if _, err := src.options(cmd, defaultConfig(), "disk.xml"); err == nil {
		t.Fatal("expected error for an empty path segment")
	}
}

func TestRunnerCachePrefix(t *testing.T) {
	c := testCLI()
	c.config = defaultConfig()
	c.config.Cache.Prefix = "team-a:"

	runner, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer runner.Close()

	key := runner.Keyer.LayoutKey("abc", cache.LayoutKeyOpts{})
	if !strings.HasPrefix(key, "team-a:") {
		t.Errorf("layout key = %q, want team-a: prefix", key)
	}
}
