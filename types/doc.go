// Copyright (c) DelegateFlow Authors.
// Licensed under the MIT License.

/*
Package types provides the shared domain types of the delegation planner.

types is the lowest-level package with no internal dependencies. It defines
the vocabulary every other package speaks:

  - Task               — a unit of work submitted for delegation
  - Agent              — a candidate executor (human, robot, AI, hybrid)
  - DelegationDecision — the planner's complete, immutable answer
  - RiskAssessment / ExecutionLocation / CoordinationPlan — decision parts
  - Error / ErrorCode  — structured error taxonomy with HTTP status mapping

All enumerations are string-typed with Valid() checks so that values
arriving over the wire can be validated without reflection.
*/
package types
