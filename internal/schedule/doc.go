// Package schedule implements the core scheduling pipeline: a free-text
// instruction is planned into candidate calendar events, each event is
// booked independently, and the per-event outcomes are rendered into a
// single summary for the requester.
//
// The pipeline is a strict two-stage sequence with no retries, no
// parallelism, and no state shared across runs. Planning failures degrade
// to an empty plan rather than aborting; booking failures are isolated per
// event. Every failure mode is converted into outcome text before the
// summary leaves this package.
package schedule
