package universe

import (
	"context"

	"google.golang.org/grpc"

	model "github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/events"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

// Client calls both services over one connection. The caller identity and
// locale travel in the outgoing metadata of ctx.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a Client using conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// CreateUniverse seeds a universe owned by the caller.
func (c *Client) CreateUniverse(ctx context.Context, opts ...grpc.CallOption) (model.ID, model.Universe, error) {
	rec, err := invoke(ctx, c.conn, UniverseService_CreateUniverse_FullMethodName, createUniverseRequestCodec, universeCodec, &CreateUniverseRequest{}, opts...)
	if err != nil {
		return "", model.Universe{}, err
	}
	return rec.ID, rec.Universe, nil
}

// Tick advances id by one generation.
func (c *Client) Tick(ctx context.Context, id model.ID, opts ...grpc.CallOption) (model.Universe, error) {
	rec, err := invoke(ctx, c.conn, UniverseService_Tick_FullMethodName, tickRequestCodec, universeCodec, &TickRequest{UniverseID: id.String()}, opts...)
	if err != nil {
		return model.Universe{}, err
	}
	return rec.Universe, nil
}

// GetUniverse fetches id.
func (c *Client) GetUniverse(ctx context.Context, id model.ID, opts ...grpc.CallOption) (model.Universe, error) {
	rec, err := invoke(ctx, c.conn, UniverseService_GetUniverse_FullMethodName, getUniverseRequestCodec, universeCodec, &GetUniverseRequest{UniverseID: id.String()}, opts...)
	if err != nil {
		return model.Universe{}, err
	}
	return rec.Universe, nil
}

// ListUniverses returns one page of universes and the token of the next.
func (c *Client) ListUniverses(ctx context.Context, pageSize int32, pageToken string, opts ...grpc.CallOption) ([]storage.UniverseRecord, string, error) {
	req := &ListUniversesRequest{PageSize: pageSize, PageToken: pageToken}
	resp, err := invoke(ctx, c.conn, UniverseService_ListUniverses_FullMethodName, listUniversesRequestCodec, listUniversesResponseCodec, req, opts...)
	if err != nil {
		return nil, "", err
	}
	return resp.Universes, resp.NextPageToken, nil
}

// ListEvents returns one page of journal events and the token of the next.
func (c *Client) ListEvents(ctx context.Context, req ListEventsRequest, opts ...grpc.CallOption) ([]events.Event, string, error) {
	resp, err := invoke(ctx, c.conn, UniverseService_ListEvents_FullMethodName, listEventsRequestCodec, listEventsResponseCodec, &req, opts...)
	if err != nil {
		return nil, "", err
	}
	return resp.Events, resp.NextPageToken, nil
}

// StoreValue overwrites the counter.
func (c *Client) StoreValue(ctx context.Context, value uint32, opts ...grpc.CallOption) (uint32, error) {
	resp, err := invoke(ctx, c.conn, CounterService_StoreValue_FullMethodName, storeValueRequestCodec, counterValueCodec, &StoreValueRequest{Value: value}, opts...)
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Increment adds one to the counter.
func (c *Client) Increment(ctx context.Context, opts ...grpc.CallOption) (uint32, error) {
	resp, err := invoke(ctx, c.conn, CounterService_Increment_FullMethodName, incrementRequestCodec, counterValueCodec, &IncrementRequest{}, opts...)
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}
