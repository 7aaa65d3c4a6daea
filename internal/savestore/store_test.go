package savestore

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"grainfall/internal/world"
)

func testSnapshot(t *testing.T, w, h int) world.Snapshot {
	t.Helper()
	wld := world.New(w, h, 22)
	wld.Set(1, 1, 3, 120)
	wld.Set(2, 1, 5, 22)
	wld.Cells()[wld.Index(0, 0)] = 7
	wld.Ages()[wld.Index(0, 0)] = 13
	return wld.Snapshot()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir(), "digest-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	snap := testSnapshot(t, 24, 16)
	if err := store.Save("quick", snap, 480); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, tick, err := store.Load("quick")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tick != 480 {
		t.Fatalf("tick = %d, want 480", tick)
	}
	if got.Width != snap.Width || got.Height != snap.Height {
		t.Fatalf("shape = %dx%d, want %dx%d", got.Width, got.Height, snap.Width, snap.Height)
	}
	if !slices.Equal(got.Materials, snap.Materials) {
		t.Fatal("materials changed across the round trip")
	}
	if !slices.Equal(got.Temperatures, snap.Temperatures) {
		t.Fatal("temperatures changed across the round trip")
	}
	if !slices.Equal(got.Ages, snap.Ages) {
		t.Fatal("ages changed across the round trip")
	}
	if got.Digest() != snap.Digest() {
		t.Fatal("snapshot digest changed across the round trip")
	}
}

func TestSaveReplacesSlotInPlace(t *testing.T) {
	store, err := Open(t.TempDir(), "digest-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Save("quick", testSnapshot(t, 8, 8), 10); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save("quick", testSnapshot(t, 8, 8), 99); err != nil {
		t.Fatalf("second save: %v", err)
	}

	_, tick, err := store.Load("quick")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tick != 99 {
		t.Fatalf("tick = %d, want the newer save's 99", tick)
	}

	slots, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if slots[0].Name != "quick" || slots[0].Tick != 99 {
		t.Fatalf("slot = %+v, want quick at tick 99", slots[0])
	}
}

func TestFailedSaveIsNotIndexed(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, "digest-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	// Occupy the slot's file path with a directory so the write fails.
	if err := os.Mkdir(filepath.Join(dir, "bad.snap.zst"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := store.Save("bad", testSnapshot(t, 8, 8), 3); err == nil {
		t.Fatal("save onto an unwritable path must report the error")
	}

	// The failed save must not appear in the index.
	if _, _, err := store.Load("bad"); !errors.Is(err, ErrNoSlot) {
		t.Fatalf("err = %v, want ErrNoSlot after a failed save", err)
	}
	slots, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0 after a failed save", len(slots))
	}
}

func TestLoadUnknownSlot(t *testing.T) {
	store, err := Open(t.TempDir(), "digest-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, _, err := store.Load("nope"); !errors.Is(err, ErrNoSlot) {
		t.Fatalf("err = %v, want ErrNoSlot", err)
	}
}

func TestLoadRejectsForeignDigest(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir, "digest-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Save("quick", testSnapshot(t, 8, 8), 5); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Same directory reopened against a rebuilt material set.
	store, err = Open(dir, "digest-b")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	if _, _, err := store.Load("quick"); !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("err = %v, want ErrDigestMismatch", err)
	}
}

func TestSlotFileNamesStayInsideTheStore(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, "digest-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Save("../escape/attempt", testSnapshot(t, 8, 8), 1); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".._escape_attempt.snap.zst")); err != nil {
		t.Fatalf("sanitized slot file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape")); !os.IsNotExist(err) {
		t.Fatalf("slot name escaped the store directory: %v", err)
	}
	if _, _, err := store.Load("../escape/attempt"); err != nil {
		t.Fatalf("load by original name: %v", err)
	}
}
