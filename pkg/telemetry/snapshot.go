package telemetry

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-flightcore/pkg/config"
	"github.com/opd-ai/go-flightcore/pkg/control"
)

// Snapshot is a saved control state that can be restored into an Aircraft
type Snapshot struct {
	Version  string                       `msgpack:"version"`
	Aircraft string                       `msgpack:"aircraft"`
	SimTime  float64                      `msgpack:"sim_time"`
	SavedAt  time.Time                    `msgpack:"saved_at"`
	State    control.AircraftControlState `msgpack:"state"`
}

// NewSnapshot captures state at simTime
func NewSnapshot(aircraft string, simTime float64, state control.AircraftControlState) Snapshot {
	return Snapshot{
		Version:  config.CurrentVersion,
		Aircraft: aircraft,
		SimTime:  simTime,
		SavedAt:  time.Now(),
		State:    state,
	}
}

// SaveSnapshot writes snap to w as msgpack compressed with zstd
func SaveSnapshot(w io.Writer, snap Snapshot) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}

	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot and checks that
// its version is compatible with this build.
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(zr).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if err := config.CheckVersion(snap.Version); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// WriteSnapshotFile saves snap to path
func WriteSnapshotFile(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := SaveSnapshot(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshotFile loads a snapshot from path
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return LoadSnapshot(f)
}
