package model

import (
	"encoding/json"
	"time"
)

type Team struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Gender         string          `json:"gender"`
	Roles          json.RawMessage `json:"roles"`
	Effectif       string          `json:"effectif"`
	NombreEquipes  string          `json:"nombreEquipes"`
	AnneeNaissance string          `json:"anneeNaissance"`
	Seances        string          `json:"seances"`
	Matches        string          `json:"matches"`
	MotDesCoaches  string          `json:"motDesCoaches"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
}
