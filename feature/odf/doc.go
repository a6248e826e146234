// Package odf is the ingestion feature: it accepts raw ODF XML
// messages over HTTP and reconciles them into the relational snapshot.
//
// The feed is unordered and redundant. Messages may arrive out of
// order, reference entities that have not been described yet, or
// re-deliver improving snapshots of the same unit (LIVE, UNOFFICIAL,
// OFFICIAL). Correctness comes from idempotent upserts and stub
// creation in the parse subpackage, not from queueing.
//
// # Components
//
//   - Service: the ingestion entry point; owns the one-transaction-per-
//     message boundary and the post-commit change notification.
//   - Handler: exposes POST /ingest-odf.
//   - Notifier: fans out a "data changed" signal to viewers after each
//     committed message, fire-and-forget.
//
// # HTTP Endpoints
//
//   - POST /ingest-odf : ingest one raw ODF XML message.
package odf
