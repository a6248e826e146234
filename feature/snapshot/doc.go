// Package snapshot is the read side: it serializes the reconciled
// tables into one composite JSON document for display clients.
//
// The document carries the medal tally joined to delegation names and
// flags (ordered by rank), the timetable joined to event names (ordered
// by start time), the start lists, results and medallists, plus a meta
// section with the raw event, unit and participant tables clients index
// into by identifier.
//
// Flags live in object storage; when a delegation row carries no flag
// URL the service probes the conventional bucket location and fills in
// the public URL.
//
// # HTTP Endpoints
//
//   - GET /snapshot : the composite document.
package snapshot
