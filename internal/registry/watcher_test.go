package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChamsBouzaiene/promptstitch/internal/events"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")

	sink := &events.Recorder{}
	set := NewSet(events.NopSink{})

	w, err := NewWatcher(path, set, sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	snap := Snapshot{Tones: map[string]string{"upbeat": "positive, energetic voice"}}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	// The reload is debounced; poll past the debounce window.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := set.Tones.Descriptor("upbeat"); ok {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	if _, ok := set.Tones.Descriptor("upbeat"); !ok {
		t.Fatal("registry was not reloaded from disk")
	}
	if len(sink.ByKind(events.KindRegistryReloaded)) == 0 {
		t.Error("expected a reload event")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")

	sink := &events.Recorder{}
	set := NewSet(events.NopSink{})

	w, err := NewWatcher(path, set, sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("noise"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(time.Second)
	if n := len(sink.ByKind(events.KindRegistryReloaded)); n != 0 {
		t.Errorf("unrelated file triggered %d reloads", n)
	}
}
