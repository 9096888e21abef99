package specification

import "gorm.io/gorm"

// Specification is a composable query refinement.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
