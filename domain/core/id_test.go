package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestParseRunID(t *testing.T) {
	id := NewRunID()

	parsed, err := ParseRunID("  " + id.String() + " ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != id {
		t.Errorf("Expected %s, got %s", id, parsed)
	}

	for _, bad := range []string{"", "   ", "not-a-uuid"} {
		if _, err := ParseRunID(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestDomainErrorHelpers(t *testing.T) {
	err := NewColumnNotFoundError("score")
	if !IsColumnNotFound(err) || !IsNotFoundError(err) {
		t.Errorf("column error should match ErrColumnNotFound and ErrNotFound: %v", err)
	}
	if IsInvalidOperation(err) {
		t.Errorf("column error should not be an invalid operation")
	}

	if !IsInvalidOperation(NewInvalidOperationError("column %q is not numeric", "city")) {
		t.Errorf("expected invalid operation")
	}
	if !IsDegenerateInput(NewDegenerateInputError("need %d values", 3)) {
		t.Errorf("expected degenerate input")
	}
	if !IsNotFoundError(NewRunNotFoundError("abc")) {
		t.Errorf("expected run not found to be a not found error")
	}
}
