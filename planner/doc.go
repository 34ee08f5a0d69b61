// Copyright (c) DelegateFlow Authors.
// Licensed under the MIT License.

/*
Package planner implements the task delegation decision pipeline.

The pipeline is a single pass over a validated task and an immutable agent
catalog snapshot:

	Received → Validated → Scored → RiskAssessed → LocationPlanned →
	(CoordinationPlanned if multi-agent) → Assembled → Returned

Every stage after validation is a pure function of the task and the
snapshot: identical inputs produce byte-identical decisions. There is no
randomness anywhere in the pipeline, which makes decisions auditable and
delegation calls safe to run concurrently without coordination.

Components:

  - Scorer              — capability fitness and agent selection ranking
  - RiskAssessor        — deterministic composite risk with mitigations
  - LocationPlanner     — edge/cloud/hybrid placement from score accumulators
  - CoordinationPlanner — topology, protocol, sync points, failover, balancing
  - Orchestrator        — validates, runs the stages, assembles the decision
*/
package planner
