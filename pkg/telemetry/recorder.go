// Package telemetry stores sampled aircraft control states. It provides a
// SQLite flight data recorder with CSV export, a circuit breaker that keeps
// a failing recorder from stalling the host loop, and compressed state
// snapshots.
package telemetry

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/opd-ai/go-flightcore/pkg/control"
)

// ErrRecorderClosed is returned by operations on a closed recorder
var ErrRecorderClosed = errors.New("recorder closed")

const schema = `CREATE TABLE IF NOT EXISTS flight_controls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	sim_time REAL,
	engine_running INTEGER,
	thrust REAL,
	target_thrust REAL,
	propeller_rpm REAL,
	propeller_angle REAL,
	pitch_cmd REAL,
	roll_cmd REAL,
	yaw_cmd REAL,
	flap_cmd REAL,
	brake_torque REAL
)`

var csvHeader = []string{
	"sim_time", "engine_running", "thrust", "target_thrust", "propeller_rpm",
	"propeller_angle", "pitch_cmd", "roll_cmd", "yaw_cmd", "flap_cmd", "brake_torque",
}

// Sample is one recorded row
type Sample struct {
	SimTime float64
	State   control.AircraftControlState
}

// SQLiteRecorder writes control states to a SQLite database
type SQLiteRecorder struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenSQLiteRecorder opens or creates the database at path
func OpenSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteRecorder{db: db, path: path}, nil
}

// Path returns the database file path
func (r *SQLiteRecorder) Path() string {
	return r.path
}

// Record inserts one sample
func (r *SQLiteRecorder) Record(ctx context.Context, simTime float64, state control.AircraftControlState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flight_controls (sim_time, engine_running, thrust, target_thrust, propeller_rpm, propeller_angle, pitch_cmd, roll_cmd, yaw_cmd, flap_cmd, brake_torque) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		simTime, state.EngineRunning, state.ThrustPercent, state.TargetThrustPercent,
		state.PropellerRPM, state.PropellerAngle, state.PitchCmd, state.RollCmd,
		state.YawCmd, state.FlapCmd, state.BrakeTorque,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Count returns the number of stored samples
func (r *SQLiteRecorder) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrRecorderClosed
	}

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flight_controls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count samples: %w", err)
	}
	return n, nil
}

// Samples returns every stored sample in insertion order
func (r *SQLiteRecorder) Samples(ctx context.Context) ([]Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRecorderClosed
	}
	return r.samples(ctx)
}

func (r *SQLiteRecorder) samples(ctx context.Context) ([]Sample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sim_time, engine_running, thrust, target_thrust, propeller_rpm, propeller_angle, pitch_cmd, roll_cmd, yaw_cmd, flap_cmd, brake_torque FROM flight_controls ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var s Sample
		st := &s.State
		if err := rows.Scan(&s.SimTime, &st.EngineRunning, &st.ThrustPercent, &st.TargetThrustPercent,
			&st.PropellerRPM, &st.PropellerAngle, &st.PitchCmd, &st.RollCmd, &st.YawCmd,
			&st.FlapCmd, &st.BrakeTorque); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return out, nil
}

// ExportCSV writes every sample to a CSV file at path and purges the
// database. It returns the number of exported rows.
func (r *SQLiteRecorder) ExportCSV(ctx context.Context, path string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrRecorderClosed
	}

	samples, err := r.samples(ctx)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, s := range samples {
		if err := w.Write(csvRow(s)); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	// Purge DB after export
	if _, err := r.db.ExecContext(ctx, `DELETE FROM flight_controls`); err != nil {
		return 0, fmt.Errorf("purge db: %w", err)
	}

	return len(samples), nil
}

func csvRow(s Sample) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	st := s.State
	return []string{
		f(s.SimTime),
		strconv.FormatBool(st.EngineRunning),
		f(st.ThrustPercent),
		f(st.TargetThrustPercent),
		f(st.PropellerRPM),
		f(st.PropellerAngle),
		f(st.PitchCmd),
		f(st.RollCmd),
		f(st.YawCmd),
		f(st.FlapCmd),
		f(st.BrakeTorque),
	}
}

// Ping checks that the database is reachable
func (r *SQLiteRecorder) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}
	return r.db.PingContext(ctx)
}

// Close closes the database. Further calls return ErrRecorderClosed.
func (r *SQLiteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}
