// Package universe exposes the universe and counter operations over gRPC.
//
// There is no generated code. The message schema is assembled in
// schema.go, messages travel as dynamicpb messages, and the services and
// Client work with the typed structs in messages.go. A Universe message
// carries id, width, height, owner, cells and live_cells; cells is a
// string of '0' and '1' digits in row-major order.
//
// Mutating calls require the caller identity header. Errors are returned
// as domain errors and converted to status errors by the server's error
// interceptor.
package universe
