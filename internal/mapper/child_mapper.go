package mapper

import (
	"time"

	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/model"

	"gorm.io/gorm"
)

type ChildMapper struct{}

func NewChildMapper() *ChildMapper {
	return &ChildMapper{}
}

func (m *ChildMapper) ToEntity(c *model.Child) *entity.Child {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Child{
		Id:        c.Id,
		UserId:    c.UserId,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *ChildMapper) ToModel(c *entity.Child) *model.Child {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Child{
		Id:        c.Id,
		UserId:    c.UserId,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ChildMapper) ToEntities(children []*model.Child) []*entity.Child {
	entities := make([]*entity.Child, len(children))
	for i, c := range children {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
