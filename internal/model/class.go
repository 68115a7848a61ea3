package model

import "time"

// Class represents a class section, e.g. class "10" section "A".
type Class struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Section   string    `json:"section"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=20"`
	Section string `json:"section" binding:"required,notblank,max=10"`
}
