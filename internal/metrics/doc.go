// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Dispatch counts by function and outcome
//   - Request latency
//   - Soft blocks and identity rotations
//   - Key pool occupancy (active/expired/in-flight)
//   - Rows ingested per table
package metrics
