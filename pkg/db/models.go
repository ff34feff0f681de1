package db

import "time"

// Draft is a locally saved, not yet submitted word set.
type Draft struct {
	ID        string
	Title     string
	RowCount  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
