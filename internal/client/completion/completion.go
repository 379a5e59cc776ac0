// Package completion computes the weighted profile-completion percentage of
// a user record. The score is a pure function of the record's fields, so a
// stale persisted value can always be recomputed.
package completion

import (
	"strings"

	"github.com/dmitrijs2005/kodjobs/internal/client/models"
)

// Field is one weighted entry of the scoring table.
type Field struct {
	Name   string
	Weight int
	filled func(u *models.UserRecord) bool
}

func text(get func(u *models.UserRecord) string) func(u *models.UserRecord) bool {
	return func(u *models.UserRecord) bool { return strings.TrimSpace(get(u)) != "" }
}

func boolean(get func(u *models.UserRecord) bool) func(u *models.UserRecord) bool {
	return get
}

// Weights sum to 100.
var fields = []Field{
	{"name", 10, text(func(u *models.UserRecord) string { return u.Name })},
	{"email", 10, text(func(u *models.UserRecord) string { return u.Email })},
	{"dateOfBirth", 5, text(func(u *models.UserRecord) string { return u.DateOfBirth })},
	{"title", 5, text(func(u *models.UserRecord) string { return u.Title })},
	{"summary", 10, text(func(u *models.UserRecord) string { return u.Summary })},
	{"phone", 5, text(func(u *models.UserRecord) string { return u.Phone })},
	{"location", 5, text(func(u *models.UserRecord) string { return u.Location })},
	{"linkedin", 5, text(func(u *models.UserRecord) string { return u.LinkedIn })},
	{"github", 5, text(func(u *models.UserRecord) string { return u.GitHub })},
	{"skills", 10, text(func(u *models.UserRecord) string { return u.Skills })},
	{"education", 10, text(func(u *models.UserRecord) string { return u.Education })},
	{"experience", 10, text(func(u *models.UserRecord) string { return u.Experience })},
	{"resume", 5, boolean(func(u *models.UserRecord) bool { return u.Resume })},
	{"profileImage", 5, boolean(func(u *models.UserRecord) bool { return u.ProfileImage })},
}

// Fields returns a copy of the scoring table in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Filled reports whether the field counts toward the score for u.
func (f Field) Filled(u *models.UserRecord) bool {
	return u != nil && f.filled(u)
}

// Score returns the completion percentage of u, clamped to [0, 100].
// A nil record scores 0.
func Score(u *models.UserRecord) int {
	total := 0
	for _, f := range fields {
		if f.Filled(u) {
			total += f.Weight
		}
	}
	return min(max(total, 0), 100)
}

// Missing returns the names of weighted fields not yet filled, in table order.
func Missing(u *models.UserRecord) []string {
	var names []string
	for _, f := range fields {
		if !f.Filled(u) {
			names = append(names, f.Name)
		}
	}
	return names
}
