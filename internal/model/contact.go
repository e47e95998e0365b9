package model

import "github.com/google/uuid"

// Contact is the slice of a doctor or patient profile the scheduler needs
// to address notifications. Profile management itself lives elsewhere.
type Contact struct {
	ID       uuid.UUID `db:"id" json:"id"`
	FullName string    `db:"full_name" json:"full_name"`
	Email    string    `db:"email" json:"email"`
}
