package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefresher(t *testing.T) (*Refresher, *MemoryCatalog) {
	t.Helper()
	cat := NewMemoryCatalog(nil)
	return NewRefresher(nil, cat, "delegateflow.agents", nil), cat
}

func eventMsg(t *testing.T, subject string, event any) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &nats.Msg{Subject: subject, Data: data}
}

func TestRefresher_RegisterEvent(t *testing.T) {
	r, cat := newTestRefresher(t)

	r.handle(eventMsg(t, "delegateflow.agents.register", RegisterEvent{
		Industry: "logistics",
		Agent:    testAgent("a-1", "route_planning"),
	}))

	snap, err := cat.Snapshot(context.Background())
	require.NoError(t, err)
	agents := snap.ByIndustry("logistics")
	require.Len(t, agents, 1)
	assert.Equal(t, "a-1", agents[0].ID)
}

func TestRefresher_DeregisterEvent(t *testing.T) {
	r, cat := newTestRefresher(t)
	require.NoError(t, cat.Register(context.Background(), "logistics", testAgent("a-1", "route_planning")))

	r.handle(eventMsg(t, "delegateflow.agents.deregister", DeregisterEvent{AgentID: "a-1"}))

	snap, err := cat.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.ByIndustry("logistics"))
}

func TestRefresher_AvailabilityEvent(t *testing.T) {
	r, cat := newTestRefresher(t)
	require.NoError(t, cat.Register(context.Background(), "logistics", testAgent("a-1", "route_planning")))

	r.handle(eventMsg(t, "delegateflow.agents.availability", AvailabilityEvent{
		AgentID:      "a-1",
		Availability: 0.25,
	}))

	agent, _, err := cat.Get(context.Background(), "a-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, agent.Availability, 1e-9)
}

func TestRefresher_MalformedEventIsDropped(t *testing.T) {
	r, cat := newTestRefresher(t)
	before := mustSnapshot(t, cat).Version()

	r.handle(&nats.Msg{Subject: "delegateflow.agents.register", Data: []byte("{not json")})
	r.handle(&nats.Msg{Subject: "delegateflow.agents.unknown", Data: []byte("{}")})

	assert.Equal(t, before, mustSnapshot(t, cat).Version())
}

func mustSnapshot(t *testing.T, cat *MemoryCatalog) *Snapshot {
	t.Helper()
	snap, err := cat.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}
