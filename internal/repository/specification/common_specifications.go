package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// ByID filters by integer primary key.
type ByID struct {
	ID uint
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByEmail filters by email column.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// OwnedBy filters rows by owner_id.
type OwnedBy struct {
	OwnerID uint
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}

// ByUserID filters rows by user_id.
type ByUserID struct {
	UserID uint
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByQuizID filters questions by quiz_id.
type ByQuizID struct {
	QuizID uint
}

func (s ByQuizID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("quiz_id = ?", s.QuizID)
}

// ByDocumentID filters rows by document_id.
type ByDocumentID struct {
	DocumentID uint
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// OrderBy applies ordering.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination limits and offsets results.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
