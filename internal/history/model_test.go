// File: internal/history/model_test.go
package history

import (
	"testing"
	"time"
)

func TestSortRecordsNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	records := []Record{
		{ID: "a", Timestamp: NewTimestamp(base)},
		{ID: "b", Timestamp: NewTimestamp(base.Add(2 * time.Hour))},
		{ID: "c", Timestamp: NewTimestamp(base.Add(time.Hour))},
	}

	SortRecords(records)

	wantOrder := []string{"b", "c", "a"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, records[i].ID, want)
		}
	}
}

func TestSortRecordsTieBreakByID(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	records := []Record{
		{ID: "zz", Timestamp: ts},
		{ID: "aa", Timestamp: ts},
		{ID: "mm", Timestamp: ts},
	}

	SortRecords(records)

	wantOrder := []string{"aa", "mm", "zz"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, records[i].ID, want)
		}
	}
}

func TestSortRecordsEmptyAndSingle(t *testing.T) {
	SortRecords(nil)
	SortRecords([]Record{})

	single := []Record{{ID: "only", Timestamp: NewTimestamp(time.Now())}}
	SortRecords(single)
	if single[0].ID != "only" {
		t.Error("single-element sort changed the slice")
	}
}

func TestSortRecordsMixedTimestampsAndTies(t *testing.T) {
	early := NewTimestamp(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	late := NewTimestamp(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	records := []Record{
		{ID: "d", Timestamp: early},
		{ID: "b", Timestamp: late},
		{ID: "a", Timestamp: late},
		{ID: "c", Timestamp: early},
	}

	SortRecords(records)

	wantOrder := []string{"a", "b", "c", "d"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, records[i].ID, want)
		}
	}
}
