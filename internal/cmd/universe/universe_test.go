package universe

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("universe", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("expected default port 8090, got %d", cfg.Port)
	}
	if cfg.HTTPAddr != ":8091" || cfg.DBPath != "data/universe.db" || cfg.Storage != "sqlite" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if got := cfg.Options().GRPCAddr; got != ":8090" {
		t.Fatalf("expected grpc addr :8090, got %q", got)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("universe", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-addr", "127.0.0.1:9999", "-storage", "memory", "-http-addr", ""})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	opts := cfg.Options()
	if opts.GRPCAddr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", opts.GRPCAddr)
	}
	if opts.Storage != "memory" || opts.HTTPAddr != "" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("TICKVERSE_UNIVERSE_PORT", "7000")
	t.Setenv("TICKVERSE_UNIVERSE_DB_PATH", "/tmp/u.db")

	cfg, err := ParseConfig(flag.NewFlagSet("universe", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 7000 || cfg.DBPath != "/tmp/u.db" {
		t.Fatalf("expected env values, got %+v", cfg)
	}
}
