// Package catalog owns the lifecycle of candidate execution agents.
//
// The planner consumes the catalog only through immutable snapshots; all
// mutation (registration, deregistration, availability updates, file
// reloads, NATS event refresh) happens here. A gorm-backed store persists
// registrations across restarts, and a redis-backed reserver implements
// the caller-side check-then-reserve contract for agent capacity.
package catalog
