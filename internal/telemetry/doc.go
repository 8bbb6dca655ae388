// Package telemetry implements the durable sensor log and the status
// hub for the ROV control core.
//
// The logger appends timestamped samples to an append-only CSV file
// through a bounded in-memory backlog, so a stalled storage medium
// costs dropped records instead of blocked sampling. The hub fans
// status events out to in-process subscribers (the pilot-facing
// collaborator) and drops events for slow subscribers rather than
// blocking the publisher.
package telemetry
