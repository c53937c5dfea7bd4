// Package store owns all mutable state of the process: the birthday record
// collection and the two singleton settings records. Every store is
// mutex-guarded so each operation appears atomic to callers; no caller ever
// observes a partially applied mutation.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/tartampluch/go-birthday-server/internal/birthday"
	"github.com/tartampluch/go-birthday-server/internal/config"
)

// ErrNotFound is returned by Update and Get when the id was never assigned
// or the record has been deleted.
var ErrNotFound = errors.New(config.ErrRecordNotFound)

// BirthdayStore is the exclusive owner of all birthday records.
type BirthdayStore struct {
	mu      sync.Mutex
	records map[int]birthday.Record
	nextID  int
	clock   birthday.Clock
}

// NewBirthdayStore creates an empty store. The clock stamps CreatedAt on
// insert; pass a fixed clock in tests.
func NewBirthdayStore(clock birthday.Clock) *BirthdayStore {
	return &BirthdayStore{
		records: make(map[int]birthday.Record),
		nextID:  1,
		clock:   clock,
	}
}

// List returns all records ordered by (month, day) of the birth date,
// ascending. Ties keep insertion order, which is id order since ids are
// monotonic. The year never participates in the sort.
func (s *BirthdayStore) List() []birthday.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]birthday.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].BirthDate, out[j].BirthDate
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get looks up a single record by id.
func (s *BirthdayStore) Get(id int) (birthday.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	return r, ok
}

// Create assigns the next id, stamps CreatedAt, stores and returns the full
// record. It never fails for well-formed fields; shape validation happens
// upstream.
func (s *BirthdayStore) Create(fields birthday.Fields) birthday.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := birthday.Record{
		ID:        s.nextID,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		BirthDate: fields.BirthDate,
		HasYear:   fields.BirthDate.YearKnown,
		Comment:   fields.Comment,
		CreatedAt: s.clock.Now(),
	}
	s.nextID++
	s.records[r.ID] = r
	return r
}

// Update replaces every mutable field of the record with the supplied values
// (full replace, not merge). Returns ErrNotFound for an absent id.
func (s *BirthdayStore) Update(id int, fields birthday.Fields) (birthday.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return birthday.Record{}, ErrNotFound
	}
	r.FirstName = fields.FirstName
	r.LastName = fields.LastName
	r.BirthDate = fields.BirthDate
	r.HasYear = fields.BirthDate.YearKnown
	r.Comment = fields.Comment
	s.records[id] = r
	return r, nil
}

// Delete removes the record. Deleting an absent id is a no-op, not an error,
// so deletion is idempotent. The id is never handed out again.
func (s *BirthdayStore) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
}

// Len reports the current record count.
func (s *BirthdayStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
