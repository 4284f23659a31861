// Package sqlite implements the universe storage contracts on SQLite.
//
// Universes are kept one row per identifier with cells packed one byte per
// cell. The event journal relies on AUTOINCREMENT for its sequence so that
// sequence numbers are never reused.
package sqlite
