package repo

import "gorm.io/gorm"

// GormRepo is the persistence boundary for the billing service.
type GormRepo struct {
	DB *gorm.DB
}

// ProcResult is the typed shape of a procedure-style list query:
// rows plus a status code and message, decoupling callers from
// output-parameter mechanics.
type ProcResult[T any] struct {
	Rows       []T    `json:"value"`
	StatusCode int    `json:"return_number"`
	Message    string `json:"error_message"`
}
