// Package parse turns raw ODF XML messages into database state.
//
// It covers the whole path from bytes to reconciled rows:
//
//  1. Envelope: locates the OdfBody element and extracts the routing
//     attributes (DocumentType, DocumentCode, DocumentSubtype,
//     ResultStatus).
//  2. Registry: resolves the routing key to a handler by descending
//     specificity, (type, discipline, subtype) down to (type, *, *).
//  3. Handlers: one per message kind (results, records, rosters, code
//     tables, schedules, configuration, medals), each reconciling its
//     slice of the model via idempotent upserts.
//
// # Stub-then-enrich
//
// Handlers may reference delegations, events or participants that their
// own message does not describe. The Ensure* helpers insert minimal
// placeholder rows for such references, and the owning handler enriches
// them whenever its message arrives, in either order.
//
// # Ownership
//
// Every handler updates only the columns it owns, so messages of
// different kinds can interleave freely without clobbering each other's
// fields. Malformed pieces inside a message are skipped with a log
// entry; only database failures abort the enclosing transaction.
package parse
