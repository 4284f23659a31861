// Package server composes the universe service runtime.
//
// It opens storage, builds the engine and counter with the event journal
// as their sink, and serves the gRPC API next to an HTTP listener that
// streams events to websocket watchers.
package server
