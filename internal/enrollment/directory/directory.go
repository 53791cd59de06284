// Package directory looks up students and careers in the administrative CRUD
// service. Entity ownership stays with that service; this package only reads.
package directory

import (
	"context"
	"time"
)

// Student is the directory view of a student record.
type Student struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	BirthDate time.Time `json:"birthDate"`
	Active    bool      `json:"isActive"`
}

// FullName joins the name parts for display.
func (s Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Age returns the student's age in whole years at the given time.
func (s Student) Age(at time.Time) int {
	years := at.Year() - s.BirthDate.Year()
	anniversary := s.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

// Career is the directory view of a career record.
type Career struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FacultyName string `json:"facultyName"`
	Active      bool   `json:"isActive"`
}

// StudentDirectory resolves students by id. Implementations return
// sentinel.ErrNotFound for unknown ids.
type StudentDirectory interface {
	Student(ctx context.Context, id int64) (*Student, error)
}

// CareerDirectory resolves careers by id. Implementations return
// sentinel.ErrNotFound for unknown ids.
type CareerDirectory interface {
	Career(ctx context.Context, id int64) (*Career, error)
}
