package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	// MinGraduationYear is the earliest accepted graduation year.
	MinGraduationYear = 1950
)

var ErrInvalidGraduationYear = errors.New("invalid graduation year")

// ParseGraduationYear parses s and checks it against
// [MinGraduationYear, now.Year()].
func ParseGraduationYear(s string, now time.Time) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < MinGraduationYear || y > now.Year() {
		return 0, ErrInvalidGraduationYear
	}
	return y, nil
}

// ProfileRecord is the extended profile mirrored in the remote store,
// keyed by UserID.
type ProfileRecord struct {
	UserID      string `json:"user_id" bson:"_id"`
	Email       string `json:"email" bson:"email"`
	DisplayName string `json:"display_name" bson:"display_name"`
	DegreeTitle string `json:"degree_title" bson:"degree_title"`

	// GraduationYear is zero when unknown.
	GraduationYear int `json:"graduation_year,omitempty" bson:"graduation_year,omitempty"`

	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	LastAccessAt time.Time `json:"last_access_at" bson:"last_access_at"`
	Active       bool      `json:"active" bson:"active"`
}

// Clone returns a copy of p, or nil when p is nil.
func (p *ProfileRecord) Clone() *ProfileRecord {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ProfileFields is the finished, validated payload a screen hands to the
// coordinator on register and edit. Values are kept as entered.
type ProfileFields struct {
	Name            string
	DegreeTitle     string
	GraduationYear  string
	CurrentPassword string
}

// ProfileUpdate is a partial update of a ProfileRecord. Nil pointers leave
// the stored value untouched.
type ProfileUpdate struct {
	DisplayName    *string
	DegreeTitle    *string
	GraduationYear *int
	LastAccessAt   *time.Time
}

// IsEmpty reports whether u changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.DegreeTitle == nil && u.GraduationYear == nil && u.LastAccessAt == nil
}

// Apply merges u into p in place.
func (u ProfileUpdate) Apply(p *ProfileRecord) {
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.DegreeTitle != nil {
		p.DegreeTitle = *u.DegreeTitle
	}
	if u.GraduationYear != nil {
		p.GraduationYear = *u.GraduationYear
	}
	if u.LastAccessAt != nil {
		p.LastAccessAt = *u.LastAccessAt
	}
}
