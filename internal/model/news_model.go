package model

import "time"

type News struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageName   string     `json:"imageName"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
