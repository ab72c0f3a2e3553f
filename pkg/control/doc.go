// Package control implements the propulsion and control-mixing core of the
// aircraft simulation.
//
// Each variable-rate frame the core samples a CommandSnapshot, applies the
// engine state machine and rate-limits throttle and propeller RPM toward
// their targets. Each fixed-rate physics step it mixes stick axes onto the
// registered control surfaces and broadcasts brake torque to the wheels.
// Results are returned as plain output structs; the core never touches
// collaborator objects directly and never returns errors.
package control
