package universectl

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/tickverse/internal/services/universe/core/filter"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
)

// watchEvents prints streamed events until ctx ends or the server closes
// the stream. The filter is applied locally.
func watchEvents(ctx context.Context, cfg Config, out io.Writer, r renderer) error {
	cond, err := filter.ParseEventFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("parse filter: %w", err)
	}

	target := url.URL{Scheme: "ws", Host: cfg.EventsAddr, Path: "/events"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", target.String(), err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		var evt events.Event
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		if !cond.Matches(evt) {
			continue
		}
		fmt.Fprintln(out, r.Event(evt))
	}
}
