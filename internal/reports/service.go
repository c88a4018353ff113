package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"waranalyzer-backend/internal/analysis"
	"waranalyzer-backend/internal/shared/storage/object"
)

// Service persists completed analysis results: the full JSON goes to the
// object store, a summary row to the repo. It implements the runner's
// ResultSink.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// Archive stores the result JSON and the summary row for a completed task.
func (s *Service) Archive(ctx context.Context, taskID string, result analysis.Result) error {
	if s.Store == nil {
		return errors.New("object store not configured")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	storageKey := path.Join("reports", taskID+".json")
	if _, err := s.Store.SaveWithKey(ctx, storageKey, "application/json", bytes.NewReader(data)); err != nil {
		return fmt.Errorf("store result: %w", err)
	}

	report := Report{
		ID:            taskID,
		ProjectName:   result.ProjectName,
		FileName:      result.WarInfo.FileName,
		FileSizeMB:    result.WarInfo.FileSizeMB,
		TotalClasses:  result.WarInfo.TotalClasses,
		TotalJars:     result.WarInfo.TotalJars,
		SpringVersion: result.WarInfo.SpringVersion,
		StorageKey:    storageKey,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, report); err != nil {
		return fmt.Errorf("create report row: %w", err)
	}
	return nil
}

// List returns recent reports, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Report, error) {
	return s.Repo.ListRecent(ctx, limit)
}

// Open returns the report row and a reader over the stored result JSON.
func (s *Service) Open(ctx context.Context, reportID string) (Report, io.ReadCloser, error) {
	if s.Store == nil {
		return Report{}, nil, errors.New("object store not configured")
	}
	report, err := s.Repo.GetByID(ctx, reportID)
	if err != nil {
		return Report{}, nil, err
	}
	body, err := s.Store.Open(ctx, report.StorageKey)
	if err != nil {
		return Report{}, nil, fmt.Errorf("open stored result: %w", err)
	}
	return report, body, nil
}
