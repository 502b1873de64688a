package domain

import (
	"github.com/google/uuid"
)

type Profile struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name,omitempty"`
	UserName string    `json:"user_name,omitempty"`
	Email    string    `json:"email,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
}

func NewProfile(id uuid.UUID) *Profile {
	return &Profile{ID: id}
}
