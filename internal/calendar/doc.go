// Package calendar provides a client for creating events through the Google
// Calendar API.
//
// The client covers exactly what the booking stage needs: insert one event
// into a calendar and return the service's echoed view of it. Validation of
// event timestamps is left to the service, which is authoritative.
package calendar
