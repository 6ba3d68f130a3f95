// Package cachetest provides a conformance suite for cache port
// implementations. Adapter tests call Run with a ready, empty Cache.
package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/devdeck/devdeck/internal/port/cache"
)

// Run exercises the behaviors every Cache implementation must honor. Entries
// written here use a "conformance/" key prefix so callers can seed their own
// fixtures alongside.
func Run(t *testing.T, c cache.Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		if err := c.Set(ctx, "conformance/round", []byte("payload"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		val, found, err := c.Get(ctx, "conformance/round")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !found {
			t.Fatal("entry missing after Set")
		}
		if string(val) != "payload" {
			t.Fatalf("got %q, want %q", val, "payload")
		}
	})

	t.Run("MissOnUnknownKey", func(t *testing.T) {
		_, found, err := c.Get(ctx, "conformance/never-written")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if found {
			t.Fatal("unknown key reported as present")
		}
	})

	t.Run("DeleteRemoves", func(t *testing.T) {
		if err := c.Set(ctx, "conformance/doomed", []byte("x"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := c.Delete(ctx, "conformance/doomed"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, found, _ := c.Get(ctx, "conformance/doomed"); found {
			t.Fatal("entry still present after Delete")
		}
	})

	t.Run("DeleteUnknownIsNoop", func(t *testing.T) {
		if err := c.Delete(ctx, "conformance/never-written"); err != nil {
			t.Fatalf("Delete of an absent key must not error: %v", err)
		}
	})

	t.Run("OverwriteReplaces", func(t *testing.T) {
		if err := c.Set(ctx, "conformance/ow", []byte("v1"), time.Minute); err != nil {
			t.Fatalf("Set v1: %v", err)
		}
		if err := c.Set(ctx, "conformance/ow", []byte("v2"), time.Minute); err != nil {
			t.Fatalf("Set v2: %v", err)
		}
		val, found, err := c.Get(ctx, "conformance/ow")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !found {
			t.Fatal("entry missing after overwrite")
		}
		if string(val) != "v2" {
			t.Fatalf("got %q after overwrite, want %q", val, "v2")
		}
	})
}
