package domain

import (
	"github.com/google/uuid"
)

type CardType string

const (
	CardTypeCorporate CardType = "Corporate"
	CardTypeModern    CardType = "Modern"
	CardTypeMinimal   CardType = "Minimal"
)

type SocialLink struct {
	ID       string `json:"id,omitempty"`
	Platform string `json:"platform"`
	Icon     string `json:"icon,omitempty"`
	URL      string `json:"url"`
}

// Card is one of a user's ID cards. Only the contact fields end up in an
// export; the rest is carried as the upstream API returns it.
type Card struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	CardType    CardType     `json:"card_type,omitempty"`
	Job         string       `json:"job,omitempty"`
	Company     string       `json:"company,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	WebSite     string       `json:"web_site,omitempty"`
	Address     string       `json:"address,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Gender      string       `json:"gender,omitempty"`
	Nationality string       `json:"nationality,omitempty"`
	DOB         string       `json:"dob,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks,omitempty"`
}

func NewCard(id uuid.UUID) *Card {
	return &Card{ID: id}
}
