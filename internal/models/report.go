package models

import (
	"time"

	"github.com/google/uuid"
)

// Report представляет одно сообщение пользователя о наличии электричества в точке
type Report struct {
	ID             uuid.UUID `json:"id"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	HasElectricity bool      `json:"has_electricity"`
	Comment        string    `json:"comment,omitempty"`
	City           string    `json:"city"`
	Country        string    `json:"country"`
	CreatedAt      time.Time `json:"created_at"`
}
