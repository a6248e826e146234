// Package models defines the reconciled entity tables.
//
// Every table is keyed by the entity's natural identifier, so all
// writes are upserts and message order does not matter. Open,
// feed-defined mappings (unit configuration, relay compositions,
// splits, qualification details) are stored as JSON columns.
package models
