// Package supervisor implements the safety state machine and the
// fixed-rate control loop of the ROV control core.
//
// The supervisor is the single writer of the safety state. Every tick
// it re-validates intent freshness, mixes thrust, and drives the four
// channels; while not ARMED the neutral command is reasserted every
// tick, so even a missed write converges to a safe state. FAULT is
// terminal until an explicit external reset.
package supervisor
