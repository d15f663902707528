package ports

import (
	"context"
	"io"
)

// ImportRowResult is the per-row outcome of a bulk user import.
type ImportRowResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// ImportSummary aggregates a bulk import run.
type ImportSummary struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"success"`
	Failed    int               `json:"failed"`
	Results   []ImportRowResult `json:"results"`
}

// UserImportService ingests a CSV stream of user accounts. The header row
// must name username, email, password, and role columns; each data row is
// registered independently, so one bad row never aborts the run.
type UserImportService interface {
	ImportUsers(ctx context.Context, r io.Reader) (*ImportSummary, error)
}
