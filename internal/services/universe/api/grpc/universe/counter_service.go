package universe

import (
	"context"

	grpcmeta "github.com/louisbranch/tickverse/internal/services/universe/api/grpc/metadata"
)

// Counter stores and increments the single counter value.
type Counter interface {
	Store(ctx context.Context, caller string, value uint32) error
	Increment(ctx context.Context) (uint32, error)
}

// CounterService implements tickverse.counter.v1.CounterService.
type CounterService struct {
	counter Counter
}

// NewCounterService creates a CounterService.
func NewCounterService(counter Counter) *CounterService {
	return &CounterService{counter: counter}
}

// StoreValue overwrites the counter and echoes the stored value.
func (s *CounterService) StoreValue(ctx context.Context, in *StoreValueRequest) (*CounterValue, error) {
	caller, err := grpcmeta.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.counter.Store(ctx, caller, in.Value); err != nil {
		return nil, err
	}
	return &CounterValue{Value: in.Value}, nil
}

// Increment adds one to the counter.
func (s *CounterService) Increment(ctx context.Context, _ *IncrementRequest) (*CounterValue, error) {
	if _, err := grpcmeta.RequireCaller(ctx); err != nil {
		return nil, err
	}
	value, err := s.counter.Increment(ctx)
	if err != nil {
		return nil, err
	}
	return &CounterValue{Value: value}, nil
}
