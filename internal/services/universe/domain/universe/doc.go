// Package universe defines the grid model for one life simulation: the cell
// states, row-major indexing, toroidal neighbour counting and the pure
// generation step.
//
// Nothing here touches storage or events. Next reads the current generation
// and writes into a fresh buffer, so a step never observes its own output.
package universe
