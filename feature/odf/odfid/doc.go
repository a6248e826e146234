// Package odfid implements the fixed-width ODF identifier codec.
//
// Identifiers are 34-character strings over [A-Z0-9-]: a 26-character
// event core (discipline 3, gender 1, event type 8, event modifier 10,
// phase 4) followed by an 8-character unit segment. Event identifiers
// carry dashes for phase and unit; unit identifiers carry real values.
// Short inputs are right-padded with dashes per segment; trailing
// all-dash overflow is trimmed, any other overflow is invalid.
//
// RosterEventID is deliberately a different, looser rule used only for
// roster cross-references; do not unify it with NormalizeEventID.
//
// All functions are pure.
package odfid
