package events

import (
	"context"
	"log"
)

// LogSink writes one line per event to a logger.
type LogSink struct {
	Logger *log.Logger
}

// Publish implements Sink.
func (s LogSink) Publish(_ context.Context, evt Event) error {
	logf := log.Printf
	if s.Logger != nil {
		logf = s.Logger.Printf
	}
	switch evt.Kind {
	case KindSomethingStored:
		logf("event seq=%d kind=%s caller=%s value=%d", evt.Seq, evt.Kind, evt.Caller, evt.Value)
	default:
		logf("event seq=%d kind=%s caller=%s universe=%s", evt.Seq, evt.Kind, evt.Caller, evt.UniverseID)
	}
	return nil
}
