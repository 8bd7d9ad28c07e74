// Package hvvroutes polls the HVV journey planner for the next departures
// between a fixed home location and a user-selected destination.
//
// Each configured instance owns a Coordinator that refreshes on a fixed
// 15-minute cadence and on demand when the destination or departure time
// changes. RouteSensor is a read-only projection of the coordinator's latest
// result into a scalar state plus per-journey attributes. SetRoute is the
// command surface that retargets sensors through the Registry, and Server
// exposes both over a local HTTP API.
package hvvroutes
