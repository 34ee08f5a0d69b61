package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BaSui01/delegateflow/types"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// =============================================================================
// Registration event refresh
// =============================================================================
// Other services announce agent lifecycle changes on NATS subjects under a
// shared prefix; the refresher applies them to the local memory catalog so
// the planner always scores against a current pool without owning any
// catalog state itself.
//
// Subjects (suffix after the configured prefix):
//
//	<prefix>.register     {"industry": "...", "agent": {...}}
//	<prefix>.deregister   {"agent_id": "..."}
//	<prefix>.availability {"agent_id": "...", "availability": 0.8}
// =============================================================================

// RegisterEvent announces a new agent.
type RegisterEvent struct {
	Industry string      `json:"industry"`
	Agent    types.Agent `json:"agent"`
}

// DeregisterEvent announces an agent removal.
type DeregisterEvent struct {
	AgentID string `json:"agent_id"`
}

// AvailabilityEvent announces an availability update.
type AvailabilityEvent struct {
	AgentID      string  `json:"agent_id"`
	Availability float64 `json:"availability"`
}

// Refresher keeps a memory catalog current from NATS lifecycle events.
type Refresher struct {
	conn    *nats.Conn
	catalog *MemoryCatalog
	prefix  string
	sub     *nats.Subscription
	logger  *zap.Logger
}

// NewRefresher creates a refresher on an existing NATS connection.
func NewRefresher(conn *nats.Conn, cat *MemoryCatalog, subjectPrefix string, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		conn:    conn,
		catalog: cat,
		prefix:  strings.TrimSuffix(subjectPrefix, "."),
		logger:  logger.With(zap.String("component", "catalog_refresher")),
	}
}

// Start subscribes to the lifecycle subjects. Events that fail to apply
// are logged and dropped; a malformed event must not wedge the stream.
func (r *Refresher) Start() error {
	sub, err := r.conn.Subscribe(r.prefix+".>", r.handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s.>: %w", r.prefix, err)
	}
	r.sub = sub

	r.logger.Info("catalog refresher started", zap.String("subject", r.prefix+".>"))
	return nil
}

// Stop unsubscribes from the lifecycle subjects.
func (r *Refresher) Stop() error {
	if r.sub == nil {
		return nil
	}
	if err := r.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	r.sub = nil
	return nil
}

func (r *Refresher) handle(msg *nats.Msg) {
	ctx := context.Background()
	suffix := strings.TrimPrefix(msg.Subject, r.prefix+".")

	var err error
	switch suffix {
	case "register":
		var ev RegisterEvent
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = r.catalog.Register(ctx, ev.Industry, ev.Agent)
		}
	case "deregister":
		var ev DeregisterEvent
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = r.catalog.Deregister(ctx, ev.AgentID)
		}
	case "availability":
		var ev AvailabilityEvent
		if err = json.Unmarshal(msg.Data, &ev); err == nil {
			err = r.catalog.UpdateAvailability(ctx, ev.AgentID, ev.Availability)
		}
	default:
		r.logger.Warn("unknown catalog event subject", zap.String("subject", msg.Subject))
		return
	}

	if err != nil {
		r.logger.Warn("failed to apply catalog event",
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
	}
}
