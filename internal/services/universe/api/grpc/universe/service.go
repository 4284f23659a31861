package universe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/platform/grpc/pagination"
	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
	"github.com/louisbranch/tickverse/internal/services/universe/core/filter"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/encoding"
	model "github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

var (
	universePageSizes = pagination.PageSizeConfig{Default: 20, Max: 100}
	eventPageSizes    = pagination.PageSizeConfig{Default: 50, Max: 200}
)

// Engine runs universe transitions.
type Engine interface {
	Create(ctx context.Context, caller string) (model.ID, model.Universe, error)
	Tick(ctx context.Context, caller string, id model.ID) (model.Universe, error)
	Get(ctx context.Context, id model.ID) (model.Universe, error)
	List(ctx context.Context, pageSize int, pageToken string) (storage.UniversePage, error)
}

// EventLister reads the event journal.
type EventLister interface {
	ListEvents(ctx context.Context, query storage.EventQuery) (storage.EventPage, error)
}

// UniverseService implements tickverse.universe.v1.UniverseService.
type UniverseService struct {
	engine Engine
	events EventLister
}

// NewUniverseService creates a UniverseService.
func NewUniverseService(engine Engine, events EventLister) *UniverseService {
	return &UniverseService{engine: engine, events: events}
}

// CreateUniverse seeds a universe owned by the caller.
func (s *UniverseService) CreateUniverse(ctx context.Context, _ *CreateUniverseRequest) (*storage.UniverseRecord, error) {
	caller, err := grpcmeta.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	id, u, err := s.engine.Create(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &storage.UniverseRecord{ID: id, Universe: u}, nil
}

// Tick advances the named universe by one generation.
func (s *UniverseService) Tick(ctx context.Context, in *TickRequest) (*storage.UniverseRecord, error) {
	caller, err := grpcmeta.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseUniverseID(in.UniverseID)
	if err != nil {
		return nil, err
	}
	u, err := s.engine.Tick(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return &storage.UniverseRecord{ID: id, Universe: u}, nil
}

// GetUniverse returns the named universe.
func (s *UniverseService) GetUniverse(ctx context.Context, in *GetUniverseRequest) (*storage.UniverseRecord, error) {
	id, err := parseUniverseID(in.UniverseID)
	if err != nil {
		return nil, err
	}
	u, err := s.engine.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &storage.UniverseRecord{ID: id, Universe: u}, nil
}

// ListUniverses returns a page of universes ordered by identifier.
func (s *UniverseService) ListUniverses(ctx context.Context, in *ListUniversesRequest) (*ListUniversesResponse, error) {
	pageSize := pagination.ClampPageSize(in.PageSize, universePageSizes)
	cursor, err := pagination.DecodeToken(in.PageToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
	}

	page, err := s.engine.List(ctx, pageSize, cursor)
	if err != nil {
		return nil, err
	}
	return &ListUniversesResponse{
		Universes:     page.Universes,
		NextPageToken: pagination.EncodeToken(page.NextPageToken),
	}, nil
}

// ListEvents returns a page of journal events ordered by sequence.
func (s *UniverseService) ListEvents(ctx context.Context, in *ListEventsRequest) (*ListEventsResponse, error) {
	query, err := normalizeListEventsRequest(in)
	if err != nil {
		return nil, err
	}
	page, err := s.events.ListEvents(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	resp := &ListEventsResponse{Events: page.Events}
	if page.HasMore && len(page.Events) > 0 {
		resp.NextPageToken = pagination.EncodeToken(strconv.FormatUint(page.Events[len(page.Events)-1].Seq, 10))
	}
	return resp, nil
}

func normalizeListEventsRequest(in *ListEventsRequest) (storage.EventQuery, error) {
	query := storage.EventQuery{
		PageSize: pagination.ClampPageSize(in.PageSize, eventPageSizes),
	}

	cond, err := filter.ParseEventFilter(in.Filter)
	if err != nil {
		return storage.EventQuery{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "invalid filter", err)
	}
	query.Filter = cond

	cursor, err := pagination.DecodeToken(in.PageToken)
	if err != nil {
		return storage.EventQuery{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
	}
	if cursor != "" {
		seq, err := strconv.ParseUint(cursor, 10, 64)
		if err != nil {
			return storage.EventQuery{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
		}
		query.AfterSeq = seq
		return query, nil
	}
	query.AfterSeq = in.AfterSeq
	return query, nil
}

func parseUniverseID(value string) (model.ID, error) {
	raw := strings.TrimSpace(value)
	if !encoding.ValidID(raw) {
		return "", apperrors.WithMetadata(
			apperrors.CodeUniverseIDInvalid,
			fmt.Sprintf("invalid universe id %q", raw),
			map[string]string{"ID": raw},
		)
	}
	return model.ID(raw), nil
}
