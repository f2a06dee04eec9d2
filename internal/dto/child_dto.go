package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChildRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateChildResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowChildResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateChildRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required"`
}

type UpdateChildResponse struct {
	Id uuid.UUID `json:"id"`
}
