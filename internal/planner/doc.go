// Package planner turns free-text scheduling instructions into candidate
// calendar events via a language-model completion service.
//
// The model output contract is a JSON array of 1-7 events; the payload is
// extracted tolerantly from fenced or prose-wrapped output and repaired once
// before decoding. Any failure degrades to an empty plan.
package planner
