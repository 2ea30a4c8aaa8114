package widget

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarkerKeyShape(t *testing.T) {
	t.Parallel()

	key := markerKey("http://shop.example/some/very/long/product/path/that/keeps/going")
	if !strings.HasPrefix(key, markerPrefix) {
		t.Fatalf("expected %q prefix, got %q", markerPrefix, key)
	}
	if len(key) > len(markerPrefix)+32 {
		t.Fatalf("expected encoded part capped at 32 chars, got %q", key)
	}
	if key != markerKey("http://shop.example/some/very/long/product/path/that/keeps/going") {
		t.Fatal("marker key must be stable for the same URL")
	}
}

func TestFileMarkersRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "markers.json")
	markers := NewFileMarkers(path)

	key := markerKey("http://x")
	if markers.Get(key) {
		t.Fatal("expected no marker before Set")
	}
	if err := markers.Set(key); err != nil {
		t.Fatalf("set marker: %v", err)
	}
	if !markers.Get(key) {
		t.Fatal("expected marker after Set")
	}

	// A fresh store reading the same file sees the marker.
	if !NewFileMarkers(path).Get(key) {
		t.Fatal("expected marker to persist across store instances")
	}
}

func TestFileMarkersSurviveCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "markers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	markers := NewFileMarkers(path)
	if markers.Get("anything") {
		t.Fatal("corrupt file must read as empty")
	}
	if err := markers.Set("key"); err != nil {
		t.Fatalf("set after corrupt read: %v", err)
	}
	if !markers.Get("key") {
		t.Fatal("expected marker after rewriting corrupt file")
	}
}
