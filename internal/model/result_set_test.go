package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// TestResultSetUnmarshalJSON tests decoding of search responses.
func TestResultSetUnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes records in order", func(t *testing.T) {
		t.Parallel()

		var rs ResultSet
		data := `{"count": 2, "results": [{"id": 2}, {"id": 1}]}`
		if err := json.Unmarshal([]byte(data), &rs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rs.Count() != 2 {
			t.Fatalf("expected 2 records, got %d", rs.Count())
		}
		if rs.Results[0].ID() != "2" || rs.Results[1].ID() != "1" {
			t.Errorf("expected API order, got %q, %q", rs.Results[0].ID(), rs.Results[1].ID())
		}
	})

	t.Run("empty results is valid", func(t *testing.T) {
		t.Parallel()

		var rs ResultSet
		if err := json.Unmarshal([]byte(`{"results": []}`), &rs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rs.IsEmpty() {
			t.Errorf("expected empty result set, got %d", rs.Count())
		}
	})

	t.Run("missing results is an error", func(t *testing.T) {
		t.Parallel()

		var rs ResultSet
		err := json.Unmarshal([]byte(`{"error": "nope"}`), &rs)
		if !errors.Is(err, ErrMissingResults) {
			t.Errorf("expected ErrMissingResults, got %v", err)
		}
	})

	t.Run("null results is an error", func(t *testing.T) {
		t.Parallel()

		var rs ResultSet
		err := json.Unmarshal([]byte(`{"results": null}`), &rs)
		if !errors.Is(err, ErrMissingResults) {
			t.Errorf("expected ErrMissingResults, got %v", err)
		}
	})

	t.Run("non-object entry is an error", func(t *testing.T) {
		t.Parallel()

		var rs ResultSet
		err := json.Unmarshal([]byte(`{"results": [{"id": 1}, 5]}`), &rs)
		if !errors.Is(err, ErrNotObject) {
			t.Errorf("expected ErrNotObject, got %v", err)
		}
	})
}

// TestResultSetMarshalJSON tests that an empty set encodes an empty array.
func TestResultSetMarshalJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(NewResultSet("DE"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `"results":[]`) {
		t.Errorf("expected empty results array, got %s", out)
	}
}
