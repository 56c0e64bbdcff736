// Package dispatch issues rate-limited requests against the Alpha
// Vantage query endpoint using the shared key pool.
//
// Each dispatch reserves the best available API key, performs the HTTP
// round trip outside the pool lock, and commits the outcome:
//
//   - success: one quota unit is consumed
//   - soft block ("Information" field in the body): the key is
//     force-expired, the VPN identity rotates, and the request retries
//     after a fixed backoff, up to a bounded number of rotations
//   - transport or format failure: the reservation is released with no
//     quota charged and the error surfaces to the caller
//
// Dispatch is all-or-nothing: no partial payloads are returned.
package dispatch
