package model

import "time"

type Match struct {
	ID        int64      `json:"id"`
	Time      string     `json:"time"`
	Teams     string     `json:"teams"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
