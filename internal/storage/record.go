package storage

import (
	"github.com/google/uuid"
	"time"
)

// Record holds the surrogate key, the external identifier and the timestamps every entity carries.
// Entities embed it to share the insert and update hooks.
type Record struct {
	ID        int64     `json:"id"`
	UUID      uuid.UUID `json:"uuid" format:"uuid"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
	UpdatedAt time.Time `json:"updated_at" format:"date-time"`
}

// stamper is implemented by every entity embedding Record
type stamper interface {
	BeforeInsert(now time.Time)
	BeforeUpdate(now time.Time)
}

// BeforeInsert assigns a fresh UUID when none was set and sets both timestamps to now
func (r *Record) BeforeInsert(now time.Time) {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	r.CreatedAt = now
	r.UpdatedAt = now
}

// BeforeUpdate refreshes UpdatedAt, CreatedAt and UUID stay untouched
func (r *Record) BeforeUpdate(now time.Time) {
	r.UpdatedAt = now
}

// defaultClock returns current UTC time truncated to the precision of timestamptz
func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// stamp runs the insert or update hook of v with the store clock
func (s *Store) stamp(v stamper, insert bool) {
	now := s.now().UTC().Truncate(time.Microsecond)
	if insert {
		v.BeforeInsert(now)
		return
	}
	v.BeforeUpdate(now)
}
