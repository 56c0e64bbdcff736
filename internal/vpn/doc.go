// Package vpn controls the network egress identity used to recover
// from provider-side IP throttling.
//
// The dispatcher only consumes the Rotator interface; the concrete
// implementation shells out to the Private Internet Access CLI
// (piactl). When the VPN is disconnected it connects; when already
// connected it hops to a random region.
package vpn
