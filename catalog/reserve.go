package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/BaSui01/delegateflow/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// =============================================================================
// Check-then-reserve
// =============================================================================
// The planner never reserves capacity: a delegation decision is advice,
// not a booking. Callers that want to hold the selected agent's capacity
// perform an explicit, atomically checked reservation here. Optimistic
// concurrency (WATCH on the counter key) prevents double-booking when
// concurrent delegations pick the same agent.
// =============================================================================

// reserveMaxAttempts bounds optimistic retries when concurrent callers
// race on the same counter.
const reserveMaxAttempts = 5

// Reserver reserves and releases agent capacity against redis counters.
type Reserver struct {
	client *redis.Client
	logger *zap.Logger
}

// NewReserver creates a reserver on an existing redis client.
func NewReserver(client *redis.Client, logger *zap.Logger) *Reserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reserver{
		client: client,
		logger: logger.With(zap.String("component", "reserver")),
	}
}

func reservationKey(agentID string) string {
	return "delegateflow:reserve:" + agentID
}

// Reserve atomically increments the agent's reservation counter if doing
// so keeps it within capacity. Returns RESERVATION_CONFLICT when the
// agent is fully booked or the optimistic transaction keeps losing races.
func (r *Reserver) Reserve(ctx context.Context, agentID string, capacity int) error {
	if capacity < 1 {
		return types.NewValidationError("capacity", "capacity must be at least 1")
	}
	key := reservationKey(agentID)

	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current >= capacity {
			return types.NewError(types.ErrReservationConflict,
				fmt.Sprintf("agent %q has no free capacity (%d/%d reserved)", agentID, current, capacity))
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, strconv.Itoa(current+1), 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < reserveMaxAttempts; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		switch {
		case err == nil:
			r.logger.Debug("capacity reserved",
				zap.String("agent_id", agentID),
				zap.Int("attempt", attempt+1),
			)
			return nil
		case errors.Is(err, redis.TxFailedErr):
			// lost the race, re-check and retry
			continue
		default:
			var derr *types.Error
			if errors.As(err, &derr) {
				return derr
			}
			return types.NewError(types.ErrServiceUnavailable, "reservation store unavailable").
				WithCause(err).WithRetryable(true)
		}
	}

	return types.NewError(types.ErrReservationConflict,
		fmt.Sprintf("could not reserve agent %q after %d attempts", agentID, reserveMaxAttempts)).
		WithRetryable(true)
}

// Release decrements the agent's reservation counter, flooring at zero.
func (r *Reserver) Release(ctx context.Context, agentID string) error {
	key := reservationKey(agentID)

	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current <= 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, strconv.Itoa(current-1), 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < reserveMaxAttempts; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return types.NewError(types.ErrServiceUnavailable, "reservation store unavailable").
			WithCause(err).WithRetryable(true)
	}

	return types.NewError(types.ErrServiceUnavailable,
		fmt.Sprintf("could not release agent %q after %d attempts", agentID, reserveMaxAttempts)).
		WithRetryable(true)
}

// Reserved returns the agent's current reservation count.
func (r *Reserver) Reserved(ctx context.Context, agentID string) (int, error) {
	count, err := r.client.Get(ctx, reservationKey(agentID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, types.NewError(types.ErrServiceUnavailable, "reservation store unavailable").
			WithCause(err).WithRetryable(true)
	}
	return count, nil
}
