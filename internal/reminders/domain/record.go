package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RecordTable maps intake IDs to the reminder IDs issued for them.
// It is not safe for concurrent use.
type RecordTable struct {
	entries map[string]string
}

// NewRecordTable creates an empty table.
func NewRecordTable() *RecordTable {
	return &RecordTable{entries: make(map[string]string)}
}

// Get returns the reminder ID of an intake.
func (t *RecordTable) Get(intakeID string) (string, bool) {
	id, ok := t.entries[intakeID]
	return id, ok
}

// Put records the reminder ID of an intake, replacing any previous one.
func (t *RecordTable) Put(intakeID, reminderID string) {
	t.entries[intakeID] = reminderID
}

// Remove drops an entry and returns its reminder ID.
func (t *RecordTable) Remove(intakeID string) (string, bool) {
	id, ok := t.entries[intakeID]
	if ok {
		delete(t.entries, intakeID)
	}
	return id, ok
}

// WithPrefix returns the intake IDs starting with prefix, sorted.
func (t *RecordTable) WithPrefix(prefix string) []string {
	var ids []string
	for id := range t.entries {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IntakeIDs returns every tracked intake ID, sorted.
func (t *RecordTable) IntakeIDs() []string {
	return t.WithPrefix("")
}

// Len is the number of tracked reminders.
func (t *RecordTable) Len() int {
	return len(t.entries)
}

// Clear drops every entry.
func (t *RecordTable) Clear() {
	t.entries = make(map[string]string)
}

// Clone returns an independent copy.
func (t *RecordTable) Clone() *RecordTable {
	c := NewRecordTable()
	for k, v := range t.entries {
		c.entries[k] = v
	}
	return c
}

// MarshalJSON encodes the table as [[intakeId, reminderId], ...] sorted by
// intake ID.
func (t *RecordTable) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, len(t.entries))
	for _, id := range t.IntakeIDs() {
		pairs = append(pairs, [2]string{id, t.entries[id]})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes the pair list. Later duplicates win.
func (t *RecordTable) UnmarshalJSON(data []byte) error {
	var pairs [][]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("decode reminder records: %w", err)
	}
	t.entries = make(map[string]string, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return fmt.Errorf("decode reminder records: entry %d has %d fields", i, len(p))
		}
		t.entries[p[0]] = p[1]
	}
	return nil
}
