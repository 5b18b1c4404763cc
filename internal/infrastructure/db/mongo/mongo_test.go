package mongo

import (
	"testing"
	"time"
)

func TestConfig_ClientOptions(t *testing.T) {
	cfg := Config{
		URI:         "mongodb://db.internal:27017",
		AppName:     "accounts-api",
		MaxPoolSize: 25,
	}

	opts := cfg.clientOptions(3 * time.Second)

	if opts.AppName == nil || *opts.AppName != "accounts-api" {
		t.Fatalf("app name not applied: %v", opts.AppName)
	}
	if opts.MaxPoolSize == nil || *opts.MaxPoolSize != 25 {
		t.Fatalf("pool size not applied: %v", opts.MaxPoolSize)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != 3*time.Second {
		t.Fatalf("server selection timeout not applied: %v", opts.ServerSelectionTimeout)
	}
	if len(opts.Hosts) != 1 || opts.Hosts[0] != "db.internal:27017" {
		t.Fatalf("uri not applied: %v", opts.Hosts)
	}
}

func TestConfig_ClientOptionsLeavesDriverDefaults(t *testing.T) {
	opts := Config{URI: "mongodb://localhost:27017"}.clientOptions(time.Second)

	if opts.AppName != nil || opts.MaxPoolSize != nil {
		t.Fatalf("unset fields must not override driver defaults")
	}
}
