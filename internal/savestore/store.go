// Package savestore persists world snapshots into named save slots. Each
// slot is a zstd-compressed file holding a JSON header line followed by a
// gob-encoded snapshot; a SQLite database in the same directory indexes
// the slots so listing never has to decompress anything.
package savestore

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"grainfall/internal/world"
)

const formatVersion = 1

var (
	// ErrNoSlot is returned by Load when the named slot has never been saved.
	ErrNoSlot = errors.New("savestore: no such slot")
	// ErrDigestMismatch is returned when a slot was written against a
	// different material registry than the one now live. Restoring it would
	// reinterpret every cell index, so the load is rejected in full.
	ErrDigestMismatch = errors.New("savestore: material registry digest mismatch")
)

// Header is the uncompressed-readable leading line of a slot file.
type Header struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
	Tick    uint64 `json:"tick"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Digest  string `json:"digest"`
	SavedAt string `json:"saved_at"`
}

type envelope struct {
	Header   Header
	Snapshot world.Snapshot
}

// Slot describes one saved game in the index.
type Slot struct {
	Name    string
	Path    string
	Tick    uint64
	Width   int
	Height  int
	SavedAt string
}

// Store writes and reads save slots under a single directory.
type Store struct {
	dir    string
	digest string
	idx    *index
}

// Open prepares dir for saving, creating it if needed. digest is the live
// material registry digest; every save records it and every load checks it.
func Open(dir, digest string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("savestore: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	idx, err := openIndex(filepath.Join(dir, "slots.db"))
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, digest: digest, idx: idx}, nil
}

// Close releases the slot index.
func (s *Store) Close() error { return s.idx.close() }

// Save writes snap into the named slot, replacing any previous save under
// the same name, and records it in the index.
func (s *Store) Save(name string, snap world.Snapshot, tick uint64) error {
	hdr := Header{
		Version: formatVersion,
		Name:    name,
		Tick:    tick,
		Width:   snap.Width,
		Height:  snap.Height,
		Digest:  s.digest,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}
	path := filepath.Join(s.dir, slotFile(name))
	if err := writeEnvelope(path, envelope{Header: hdr, Snapshot: snap}); err != nil {
		return err
	}
	return s.idx.record(Slot{
		Name:  name,
		Path:  path,
		Tick:  hdr.Tick,
		Width: hdr.Width, Height: hdr.Height,
		SavedAt: hdr.SavedAt,
	}, s.digest)
}

// Load reads the named slot back. It fails with ErrNoSlot for unknown
// names and ErrDigestMismatch when the save belongs to a different
// material registry.
func (s *Store) Load(name string) (world.Snapshot, uint64, error) {
	path, err := s.idx.pathOf(name)
	if err != nil {
		return world.Snapshot{}, 0, err
	}
	env, err := readEnvelope(path)
	if err != nil {
		return world.Snapshot{}, 0, err
	}
	if env.Header.Digest != s.digest {
		return world.Snapshot{}, 0, fmt.Errorf("%w: slot %q has %.12s, registry has %.12s",
			ErrDigestMismatch, name, env.Header.Digest, s.digest)
	}
	return env.Snapshot, env.Header.Tick, nil
}

// List returns all slots in the index, most recent first.
func (s *Store) List() ([]Slot, error) { return s.idx.list() }

// slotFile maps a slot name to a filename, replacing anything that could
// escape the store directory.
func slotFile(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	if clean == "" {
		clean = "slot"
	}
	return clean + ".snap.zst"
}

// writeEnvelope flushes and closes explicitly: a swallowed error here
// would leave a truncated zstd frame behind while Save goes on to index
// the slot as good.
func writeEnvelope(path string, env envelope) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(env.Header)
	_, err = bw.Write(hb)
	if err == nil {
		err = bw.WriteByte('\n')
	}
	if err == nil {
		if gerr := gob.NewEncoder(bw).Encode(&env); gerr != nil {
			err = fmt.Errorf("gob encode: %w", gerr)
		}
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func readEnvelope(path string) (envelope, error) {
	var env envelope
	f, err := os.Open(path)
	if err != nil {
		return env, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return env, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&env); err != nil {
		return env, fmt.Errorf("gob decode: %w", err)
	}
	return env, nil
}
