// Package booking submits planned events to the external calendar service
// and records one outcome per event.
//
// The booking loop isolates failures per event: a rejected or malformed
// event produces a Failed outcome and the loop moves on. Credential
// acquisition happens once per batch; when it fails, the whole batch fails
// with that cause, still itemized per event.
package booking
