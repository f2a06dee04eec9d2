package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChildID filters documents (or spans joined through documents) by child
type ByChildID struct {
	ChildID uuid.UUID
}

func (s ByChildID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("child_id = ?", s.ChildID)
}

// ByDocumentID filters spans by their owning document
type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// ChildOwnedByUser scopes children by the authenticated user
type ChildOwnedByUser struct {
	UserID uuid.UUID
}

func (s ChildOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByDocType filters documents by their classified type
type ByDocType struct {
	DocType string
}

func (s ByDocType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doc_type = ?", s.DocType)
}
