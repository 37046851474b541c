package commands

import (
	"testing"

	"github.com/meshnetworks/hoproute/src/config"
)

func TestRunCmdFlags(t *testing.T) {
	cmd := NewRunCmd()

	for _, name := range []string{
		"datadir",
		"log",
		"moniker",
		"service-listen",
		"no-service",
		"db",
		"cache-size",
		"route-back-cache-size",
		"route-back-ttl",
		"last-routed-cache-size",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("run command should define the %s flag", name)
		}
	}
}

func TestRunCmdFlagDefaults(t *testing.T) {
	cmd := NewRunCmd()

	cacheSize, err := cmd.Flags().GetInt("cache-size")
	if err != nil {
		t.Fatal(err)
	}
	if cacheSize != config.DefaultCacheSize {
		t.Fatalf("cache-size should default to %d, not %d", config.DefaultCacheSize, cacheSize)
	}

	ttl, err := cmd.Flags().GetDuration("route-back-ttl")
	if err != nil {
		t.Fatal(err)
	}
	if ttl != config.DefaultRouteBackTTL {
		t.Fatalf("route-back-ttl should default to %s, not %s", config.DefaultRouteBackTTL, ttl)
	}
}
