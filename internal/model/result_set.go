package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingResults is returned when a search response has no results array.
var ErrMissingResults = errors.New(`response has no "results" array`)

// ResultSet is every record returned by one search, in API order.
type ResultSet struct {
	// Country is the country code the search was issued for.
	// It is not serialized.
	Country string `json:"-"`

	// Results holds the records in API response order.
	Results []*Record `json:"results"`
}

// NewResultSet creates a ResultSet for the given country and records.
func NewResultSet(country string, records ...*Record) *ResultSet {
	if records == nil {
		records = []*Record{}
	}
	return &ResultSet{Country: country, Results: records}
}

// Count returns the number of records.
func (rs *ResultSet) Count() int {
	return len(rs.Results)
}

// IsEmpty reports whether the search returned no records.
func (rs *ResultSet) IsEmpty() bool {
	return len(rs.Results) == 0
}

// MarshalJSON always emits a results array, never null.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	results := rs.Results
	if results == nil {
		results = []*Record{}
	}
	return marshalJSON(struct {
		Results []*Record `json:"results"`
	}{Results: results})
}

// UnmarshalJSON decodes {"results": [...]}. Other top-level keys are ignored.
// A missing or null results key is an error.
func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	raw, ok := envelope["results"]
	if !ok || string(raw) == "null" {
		return ErrMissingResults
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("results is not an array: %w", err)
	}

	records := make([]*Record, 0, len(items))
	for i, item := range items {
		rec := &Record{}
		if err := rec.UnmarshalJSON(item); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
		records = append(records, rec)
	}
	rs.Results = records
	return nil
}
