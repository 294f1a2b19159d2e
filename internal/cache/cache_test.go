package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestKeyFormat(t *testing.T) {
	key := Key("google", "https://patents.google.com/patent/CN114567890A/en")
	if len(key) != 24 {
		t.Fatalf("key length = %d, want 24", len(key))
	}
	for _, r := range key {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("non-hex rune %q in key %q", r, key)
		}
	}
	if key != Key("google", "https://patents.google.com/patent/CN114567890A/en") {
		t.Error("key is not deterministic")
	}
	if key == Key("cnipa", "https://patents.google.com/patent/CN114567890A/en") {
		t.Error("provider must participate in the key")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(filepath.Join(dir, "pages"))

	if _, found := c.Get("abc"); found {
		t.Fatal("unexpected hit on empty cache")
	}
	if err := c.Set("abc", []byte("<html>claims</html>")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found := c.Get("abc")
	if !found || string(got) != "<html>claims</html>" {
		t.Fatalf("Get = (%q, %v)", got, found)
	}
	if _, err := os.Stat(filepath.Join(dir, "pages", "abc.html")); err != nil {
		t.Errorf("expected abc.html on disk: %v", err)
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	if _, found := c.Get("k"); found {
		t.Fatal("unexpected hit")
	}
	if err := c.Set("k", []byte("body")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "body" {
		t.Fatalf("Get = (%q, %v)", got, found)
	}
}

func TestLayeredPromotesDiskHit(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir)

	// Seed the disk layer only, as a previous run would have.
	if err := NewDiskCache(dir).Set("k", []byte("cached page")); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	got, found := c.Get("k")
	if !found || string(got) != "cached page" {
		t.Fatalf("Get = (%q, %v)", got, found)
	}

	// Remove the file; the promoted memory entry must still serve the hit.
	if err := os.Remove(filepath.Join(dir, "k.html")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, found = c.Get("k")
	if !found || string(got) != "cached page" {
		t.Fatalf("after promotion Get = (%q, %v)", got, found)
	}
}

func TestLayeredSetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir)
	if err := c.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "k.html")); err != nil {
		t.Errorf("expected k.html on disk: %v", err)
	}
	if got, found := NewDiskCache(dir).Get("k"); !found || string(got) != "v" {
		t.Errorf("disk layer Get = (%q, %v)", got, found)
	}
}
