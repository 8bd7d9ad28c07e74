// Package gti is a client for the HVV Geofox Transit Interface.
//
// Every call is a JSON POST signed with HMAC-SHA1 over the exact request
// body, keyed by the account password. Responses carry a returnCode; anything
// other than "OK" surfaces as a *GTIError. Wire payloads are decoded into
// typed structs and validated at the boundary, so malformed upstream
// responses fail in the client instead of producing missing fields deep in a
// consumer.
package gti
