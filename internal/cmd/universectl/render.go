package universectl

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"

	model "github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
)

type renderer struct {
	au aurora.Aurora
}

func newRenderer(color bool) renderer {
	return renderer{au: aurora.NewAurora(color)}
}

// Universe renders a header line followed by the grid.
func (r renderer) Universe(id model.ID, u model.Universe) string {
	var b strings.Builder
	b.WriteString(r.Summary(id, u))
	b.WriteByte('\n')
	alive := r.au.Green("■").String()
	dead := r.au.BrightBlack("□").String()
	for row := uint32(0); row < u.Height; row++ {
		for column := uint32(0); column < u.Width; column++ {
			if u.Cells[u.Index(row, column)] == model.Alive {
				b.WriteString(alive)
			} else {
				b.WriteString(dead)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary renders one line describing a universe.
func (r renderer) Summary(id model.ID, u model.Universe) string {
	return fmt.Sprintf("%s %dx%d owner=%s live=%d",
		r.au.Bold(id.String()), u.Width, u.Height, u.Owner, u.LiveCells())
}

// Event renders one journal event.
func (r renderer) Event(evt events.Event) string {
	var kind aurora.Value
	switch evt.Kind {
	case events.KindCreated:
		kind = r.au.Green(evt.Kind)
	case events.KindTick:
		kind = r.au.Cyan(evt.Kind)
	default:
		kind = r.au.Yellow(evt.Kind)
	}
	line := fmt.Sprintf("#%d %s %s caller=%s", evt.Seq, evt.Timestamp.UTC().Format(time.RFC3339), kind, evt.Caller)
	if evt.UniverseID != "" {
		line += " universe=" + evt.UniverseID
	}
	if evt.Kind == events.KindSomethingStored {
		line += fmt.Sprintf(" value=%d", evt.Value)
	}
	return line
}

// describeError prefers the server's localized message over the status text.
func describeError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, detail := range st.Details() {
		if msg, ok := detail.(*errdetails.LocalizedMessage); ok && msg.GetMessage() != "" {
			return errors.New(st.Code().String() + ": " + msg.GetMessage())
		}
	}
	return errors.New(st.Code().String() + ": " + st.Message())
}
