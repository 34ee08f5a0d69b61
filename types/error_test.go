package types

import (
	"errors"
	"testing"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := NewError(ErrInternalError, "planning stage failed").
		WithCause(root).
		WithHTTPStatus(500).
		WithRetryable(true)

	if GetErrorCode(err) != ErrInternalError {
		t.Fatalf("expected code %s, got %s", ErrInternalError, GetErrorCode(err))
	}
	if !IsRetryable(err) {
		t.Fatalf("expected retryable")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is unwrap to root")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestNewValidationError_NamesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("industry", "industry is required")
	if err.Code != ErrValidation {
		t.Fatalf("expected %s, got %s", ErrValidation, err.Code)
	}
	if err.Field != "industry" {
		t.Fatalf("expected field 'industry', got %q", err.Field)
	}
}

func TestEnums_Valid(t *testing.T) {
	t.Parallel()

	valid := []bool{
		ComplexityCritical.Valid(),
		PriorityUrgent.Valid(),
		SafetyHigh.Valid(),
		DataLarge.Valid(),
		AgentHybrid.Valid(),
	}
	for i, ok := range valid {
		if !ok {
			t.Fatalf("case %d: expected valid", i)
		}
	}

	if Complexity("extreme").Valid() {
		t.Fatal("expected invalid complexity")
	}
	if AgentType("alien").Valid() {
		t.Fatal("expected invalid agent type")
	}
}

func TestTask_EffectiveAgentCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		task Task
		want int
	}{
		{"single agent ignores count", Task{RequiresMultipleAgents: false, AgentCount: 7}, 1},
		{"multi agent uses count", Task{RequiresMultipleAgents: true, AgentCount: 4}, 4},
		{"multi agent zero count defaults to one", Task{RequiresMultipleAgents: true}, 1},
	}
	for _, tc := range cases {
		if got := tc.task.EffectiveAgentCount(); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}
