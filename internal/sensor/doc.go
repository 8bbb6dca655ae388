// Package sensor implements environmental sensing for the ROV control
// core: the waterproof DS18B20 temperature probe and the ultrasonic
// rangefinder.
//
// Read failures never raise; they produce invalid samples, which are
// still logged for audit. Sensing faults never affect actuation: a
// degraded sensor is surfaced to the supervisor as telemetry only.
package sensor
