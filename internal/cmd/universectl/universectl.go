// Package universectl implements the universe command-line client.
package universectl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"google.golang.org/grpc"

	entrypoint "github.com/louisbranch/tickverse/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/tickverse/internal/platform/grpc"
	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
	universegrpc "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/universe"
	model "github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
)

// Commands understood by universectl.
const (
	CommandCreate    = "create"
	CommandTick      = "tick"
	CommandGet       = "get"
	CommandList      = "list"
	CommandEvents    = "events"
	CommandWatch     = "watch"
	CommandStore     = "store"
	CommandIncrement = "increment"
)

// Config holds universectl configuration.
type Config struct {
	Addr        string        `env:"TICKVERSE_UNIVERSE_ADDR" envDefault:"localhost:8090"`
	EventsAddr  string        `env:"TICKVERSE_UNIVERSE_EVENTS_ADDR" envDefault:"localhost:8091"`
	Account     string        `env:"TICKVERSE_ACCOUNT_ID"`
	Locale      string        `env:"TICKVERSE_LOCALE"`
	NoColor     bool          `env:"TICKVERSE_NO_COLOR"`
	DialTimeout time.Duration `env:"TICKVERSE_DIAL_TIMEOUT" envDefault:"5s"`

	Command    string
	UniverseID string
	Steps      int
	PageSize   int
	PageToken  string
	Filter     string
	Value      uint32
}

// ErrHelp is returned by ParseConfig after usage was printed on request.
var ErrHelp = errors.New("help requested")

func init() {
	// flaggy exits the process on malformed input unless told to panic.
	flaggy.PanicInsteadOfExit = true
}

// ParseConfig parses environment and command-line arguments into a Config.
func ParseConfig(args []string) (cfg Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			cfg = Config{}
			err = parsePanicError(r)
		}
	}()

	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Steps = 1

	parser := flaggy.NewParser("universectl")
	parser.Description = "Create, advance and inspect universes."
	parser.ShowHelpOnUnexpected = false
	parser.String(&cfg.Addr, "a", "addr", "Universe gRPC address")
	parser.String(&cfg.EventsAddr, "e", "events-addr", "Universe event stream address")
	parser.String(&cfg.Account, "u", "account", "Account id sent as the caller identity")
	parser.String(&cfg.Locale, "l", "locale", "Locale for error messages")
	parser.Bool(&cfg.NoColor, "", "no-color", "Disable colored output")
	parser.Duration(&cfg.DialTimeout, "", "dial-timeout", "How long to wait for the server to become healthy")

	create := flaggy.NewSubcommand(CommandCreate)
	create.Description = "Create a universe owned by the account"

	var universeID string
	tick := flaggy.NewSubcommand(CommandTick)
	tick.Description = "Advance a universe"
	tick.AddPositionalValue(&universeID, "id", 1, false, "Universe id")
	tick.Int(&cfg.Steps, "n", "steps", "Number of generations to advance")

	get := flaggy.NewSubcommand(CommandGet)
	get.Description = "Print a universe"
	get.AddPositionalValue(&universeID, "id", 1, false, "Universe id")

	list := flaggy.NewSubcommand(CommandList)
	list.Description = "List universes"
	list.Int(&cfg.PageSize, "s", "page-size", "Universes per page")
	list.String(&cfg.PageToken, "t", "page-token", "Page token from a previous call")

	eventsCmd := flaggy.NewSubcommand(CommandEvents)
	eventsCmd.Description = "List journal events"
	eventsCmd.String(&cfg.Filter, "f", "filter", "Filter expression, e.g. kind = \"tick\"")
	eventsCmd.Int(&cfg.PageSize, "s", "page-size", "Events per page")
	eventsCmd.String(&cfg.PageToken, "t", "page-token", "Page token from a previous call")

	watch := flaggy.NewSubcommand(CommandWatch)
	watch.Description = "Stream events as they happen"
	watch.String(&cfg.Filter, "f", "filter", "Filter expression applied to streamed events")

	var rawValue string
	store := flaggy.NewSubcommand(CommandStore)
	store.Description = "Store a counter value"
	store.AddPositionalValue(&rawValue, "value", 1, false, "Value to store")

	increment := flaggy.NewSubcommand(CommandIncrement)
	increment.Description = "Increment the counter"

	subcommands := []*flaggy.Subcommand{create, tick, get, list, eventsCmd, watch, store, increment}
	for _, sc := range subcommands {
		parser.AttachSubcommand(sc, 1)
	}
	if err := parser.ParseArgs(args); err != nil {
		return Config{}, err
	}

	for _, sc := range subcommands {
		if sc.Used {
			cfg.Command = sc.Name
		}
	}
	switch cfg.Command {
	case "":
		return Config{}, errors.New("a command is required")
	case CommandTick, CommandGet:
		cfg.UniverseID = strings.TrimSpace(universeID)
		if cfg.UniverseID == "" {
			return Config{}, fmt.Errorf("%s requires a universe id", cfg.Command)
		}
		if cfg.Steps < 1 {
			return Config{}, errors.New("steps must be at least 1")
		}
	case CommandStore:
		value, err := strconv.ParseUint(strings.TrimSpace(rawValue), 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("store requires a uint32 value: %w", err)
		}
		cfg.Value = uint32(value)
	}
	return cfg, nil
}

// parsePanicError turns flaggy's exit panic into an error. Exit code 0
// means help or version output was requested.
func parsePanicError(r any) error {
	msg := fmt.Sprint(r)
	if strings.HasSuffix(msg, "code: 0") {
		return ErrHelp
	}
	return fmt.Errorf("invalid arguments: %s", msg)
}

// Run executes the configured command, writing results to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceUniverseCtl, func(ctx context.Context) error {
		r := newRenderer(!cfg.NoColor)
		if cfg.Command == CommandWatch {
			return watchEvents(ctx, cfg, out, r)
		}

		conn, err := platformgrpc.DialWithHealth(ctx, cfg.Addr, universegrpc.UniverseServiceName, cfg.DialTimeout, nil)
		if err != nil {
			return err
		}
		defer conn.Close()

		return runCommand(grpcmeta.OutgoingContext(ctx, cfg.Account, cfg.Locale), cfg, conn, out, r)
	})
}

func runCommand(ctx context.Context, cfg Config, conn grpc.ClientConnInterface, out io.Writer, r renderer) error {
	client := universegrpc.NewClient(conn)
	switch cfg.Command {
	case CommandCreate:
		id, u, err := client.CreateUniverse(ctx)
		if err != nil {
			return describeError(err)
		}
		_, err = io.WriteString(out, r.Universe(id, u))
		return err

	case CommandTick:
		id := model.ID(cfg.UniverseID)
		var u model.Universe
		for range cfg.Steps {
			next, err := client.Tick(ctx, id)
			if err != nil {
				return describeError(err)
			}
			u = next
		}
		_, err := io.WriteString(out, r.Universe(id, u))
		return err

	case CommandGet:
		id := model.ID(cfg.UniverseID)
		u, err := client.GetUniverse(ctx, id)
		if err != nil {
			return describeError(err)
		}
		_, err = io.WriteString(out, r.Universe(id, u))
		return err

	case CommandList:
		records, next, err := client.ListUniverses(ctx, int32(cfg.PageSize), cfg.PageToken)
		if err != nil {
			return describeError(err)
		}
		for _, rec := range records {
			fmt.Fprintln(out, r.Summary(rec.ID, rec.Universe))
		}
		if next != "" {
			fmt.Fprintf(out, "next page: %s\n", next)
		}
		return nil

	case CommandEvents:
		list, next, err := client.ListEvents(ctx, universegrpc.ListEventsRequest{
			Filter:    cfg.Filter,
			PageSize:  int32(cfg.PageSize),
			PageToken: cfg.PageToken,
		})
		if err != nil {
			return describeError(err)
		}
		for _, evt := range list {
			fmt.Fprintln(out, r.Event(evt))
		}
		if next != "" {
			fmt.Fprintf(out, "next page: %s\n", next)
		}
		return nil

	case CommandStore:
		value, err := client.StoreValue(ctx, cfg.Value)
		if err != nil {
			return describeError(err)
		}
		fmt.Fprintf(out, "stored %d\n", value)
		return nil

	case CommandIncrement:
		value, err := client.Increment(ctx)
		if err != nil {
			return describeError(err)
		}
		fmt.Fprintf(out, "counter %d\n", value)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}
