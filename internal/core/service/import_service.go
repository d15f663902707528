package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/api/metrics"
	"github.com/notehub/notehub-api/internal/core/domain"
	"github.com/notehub/notehub-api/internal/core/ports"
)

const (
	importWorkers   = 5
	importQueueSize = 100
)

// importColumns are the header names a user CSV must carry, in any order
// and any casing.
var importColumns = []string{"username", "email", "password", "role"}

// ImportService registers user accounts in bulk from a CSV stream. Rows are
// fanned out to a fixed worker pool; each row succeeds or fails on its own,
// through the same registration path as the signup endpoint.
type ImportService struct {
	auth   ports.AuthService
	logger zerolog.Logger
}

func NewImportService(auth ports.AuthService, logger zerolog.Logger) *ImportService {
	return &ImportService{auth: auth, logger: logger}
}

func (s *ImportService) ImportUsers(ctx context.Context, r io.Reader) (*ports.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewValidationError("csv file is empty or unreadable")
	}
	cols, err := resolveImportColumns(header)
	if err != nil {
		return nil, err
	}

	jobs := make(chan []string, importQueueSize)
	results := make(chan ports.ImportRowResult, importQueueSize)

	var wg sync.WaitGroup
	for i := 0; i < importWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				results <- s.importRow(ctx, cols, row)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for {
			row, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				s.logger.Warn().Err(err).Msg("skipping malformed csv row")
				continue
			}
			select {
			case jobs <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &ports.ImportSummary{Results: []ports.ImportRowResult{}}
	for res := range results {
		summary.Total++
		if res.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, res)
	}

	s.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("bulk user import finished")
	return summary, nil
}

func (s *ImportService) importRow(ctx context.Context, cols importColumnIndex, row []string) ports.ImportRowResult {
	res := ports.ImportRowResult{
		Username: strings.TrimSpace(row[cols.username]),
		Email:    strings.TrimSpace(row[cols.email]),
	}

	_, err := s.auth.Register(ctx, res.Username, res.Email, strings.TrimSpace(row[cols.password]), strings.TrimSpace(row[cols.role]))
	if err != nil {
		res.Error = err.Error()
		metrics.UsersImportedTotal.WithLabelValues("failed").Inc()
		return res
	}

	res.Success = true
	metrics.UsersImportedTotal.WithLabelValues("created").Inc()
	return res
}

type importColumnIndex struct {
	username int
	email    int
	password int
	role     int
}

// resolveImportColumns locates the required columns in the header row. The
// first cell may carry a UTF-8 byte order mark, which is stripped before
// matching.
func resolveImportColumns(header []string) (importColumnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range importColumns {
		if _, ok := positions[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return importColumnIndex{}, domain.NewValidationError(
			fmt.Sprintf("csv header is missing required columns: %s", strings.Join(missing, ", ")))
	}

	return importColumnIndex{
		username: positions["username"],
		email:    positions["email"],
		password: positions["password"],
		role:     positions["role"],
	}, nil
}
