// Package storage defines the persistence contracts of the universe
// service and an in-memory implementation.
//
// Universes are keyed by their content identifier and overwritten in place
// on every tick. Events form an append-only journal ordered by a store
// assigned sequence. The counter is a single optional value.
package storage
