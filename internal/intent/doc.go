// Package intent implements the command intake for the ROV control
// core.
//
// The northbound collaborator (pilot GUI) submits discrete intent
// messages at whatever cadence it produces them; the intake validates,
// rate-limits, and holds only the latest one. The control loop reads a
// consistent snapshot each tick and judges freshness against the
// staleness timeout. The intake never drives motors itself.
package intent
