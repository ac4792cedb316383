package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one past search.
type HistoryEntry struct {
	ID             uuid.UUID `json:"-"               db:"id"`
	Word           string    `json:"word"            db:"word"`
	TargetLanguage string    `json:"target_language" db:"target_language"`
	Timestamp      time.Time `json:"timestamp"       db:"created_at"`
}
