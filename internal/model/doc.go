// Package model defines the shared tabular types passed between
// pipelines and the writer.
//
// Conventions:
//   - Dates: "2006-01-02" strings as reported by the provider
//   - Prices and rates: float64
//   - Volumes: int64
package model
