package server

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	platformgrpc "github.com/louisbranch/tickverse/internal/platform/grpc"
	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
	universegrpc "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
)

func startServer(t *testing.T, opts Options) *Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	srv, err := New(ctx, opts)
	if err != nil {
		cancel()
		t.Fatalf("new server: %v", err)
	}
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return srv
}

func dialClient(t *testing.T, srv *Server) *universegrpc.Client {
	t.Helper()
	conn, err := platformgrpc.DialWithHealth(context.Background(), srv.Addr(), universegrpc.UniverseServiceName, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return universegrpc.NewClient(conn)
}

func TestServerStreamsEventsAfterCreate(t *testing.T) {
	var logs bytes.Buffer
	srv := startServer(t, Options{
		GRPCAddr: "127.0.0.1:0",
		HTTPAddr: "127.0.0.1:0",
		Storage:  StorageMemory,
		Logger:   log.New(&logs, "", 0),
	})
	client := dialClient(t, srv)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+srv.HTTPAddr()+"/events", nil)
	if err != nil {
		t.Fatalf("dial events: %v", err)
	}
	defer ws.Close()
	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	id, _, err := client.CreateUniverse(grpcmeta.OutgoingContext(context.Background(), "alice", ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt events.Event
	if err := ws.ReadJSON(&evt); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if evt.Seq != 1 || evt.Kind != events.KindCreated || evt.Caller != "alice" || evt.UniverseID != id.String() {
		t.Fatalf("unexpected event %+v", evt)
	}

	if !strings.Contains(logs.String(), "kind=created") {
		t.Fatalf("expected event log line, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "method="+universegrpc.UniverseService_CreateUniverse_FullMethodName) {
		t.Fatalf("expected audit log line, got %q", logs.String())
	}
}

func TestServerPersistsWithSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "universe.db")
	srv := startServer(t, Options{
		GRPCAddr: "127.0.0.1:0",
		Storage:  StorageSQLite,
		DBPath:   dbPath,
		Logger:   log.New(&bytes.Buffer{}, "", 0),
	})
	if srv.HTTPAddr() != "" {
		t.Fatalf("expected event stream disabled, got %q", srv.HTTPAddr())
	}
	client := dialClient(t, srv)
	ctx := grpcmeta.OutgoingContext(context.Background(), "bob", "")

	id, created, err := client.CreateUniverse(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	next, err := client.Tick(ctx, id)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	want := created.Next()
	for i := range want {
		if next.Cells[i] != want[i] {
			t.Fatalf("cell %d = %d, want %d", i, next.Cells[i], want[i])
		}
	}

	list, _, err := client.ListEvents(context.Background(), universegrpc.ListEventsRequest{})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(list) != 2 || list[0].Kind != events.KindCreated || list[1].Kind != events.KindTick {
		t.Fatalf("unexpected journal %+v", list)
	}
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	if _, err := New(context.Background(), Options{GRPCAddr: "127.0.0.1:0", Storage: "etcd"}); err == nil {
		t.Fatal("expected error for unknown storage")
	}
}
