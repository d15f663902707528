package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/core/domain"
)

type stubEventRepo struct {
	inserted  []domain.AssetEvent
	insertErr error
}

func (r *stubEventRepo) Insert(_ context.Context, event *domain.AssetEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, *event)
	return nil
}

func (r *stubEventRepo) ListForResource(_ context.Context, _ domain.ResourceType, resourceID string, _ int) ([]domain.AssetEvent, error) {
	var out []domain.AssetEvent
	for _, e := range r.inserted {
		if e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubDeduper struct {
	seen     map[string]bool
	checkErr error
}

func newStubDeduper() *stubDeduper {
	return &stubDeduper{seen: make(map[string]bool)}
}

func dedupKey(e domain.AssetEvent) string {
	return e.Type + "|" + e.ResourceID + "|" + e.ActorID
}

func (d *stubDeduper) IsDuplicate(_ context.Context, event domain.AssetEvent) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.seen[dedupKey(event)], nil
}

func (d *stubDeduper) Mark(_ context.Context, event domain.AssetEvent) error {
	d.seen[dedupKey(event)] = true
	return nil
}

func TestAuditService_Record(t *testing.T) {
	repo := &stubEventRepo{}
	dedup := newStubDeduper()
	svc := NewAuditService(repo, dedup, zerolog.Nop())

	event := domain.NewAssetEvent(domain.EventNoteCreated, domain.ResourceNote, "note-1", "owner", "owner")
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}

	// the exact same event again is suppressed
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("duplicate record errored: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("duplicate was inserted: %d rows", len(repo.inserted))
	}
}

func TestAuditService_Record_DedupOutage(t *testing.T) {
	repo := &stubEventRepo{}
	dedup := newStubDeduper()
	dedup.checkErr = errors.New("redis down")
	svc := NewAuditService(repo, dedup, zerolog.Nop())

	event := domain.NewAssetEvent(domain.EventFolderCreated, domain.ResourceFolder, "folder-1", "owner", "owner")
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("record failed during dedup outage: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("event dropped during dedup outage")
	}
}

func TestAuditService_Record_InsertFailure(t *testing.T) {
	repo := &stubEventRepo{insertErr: domain.ErrStorageUnavailable}
	svc := NewAuditService(repo, newStubDeduper(), zerolog.Nop())

	event := domain.NewAssetEvent(domain.EventNoteDeleted, domain.ResourceNote, "note-2", "owner", "owner")
	if err := svc.Record(context.Background(), event); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestAuditService_Record_NilDeduper(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewAuditService(repo, nil, zerolog.Nop())

	event := domain.NewAssetEvent(domain.EventNoteUpdated, domain.ResourceNote, "note-3", "owner", "owner")
	if err := svc.Record(context.Background(), event); err != nil {
		t.Fatalf("record failed without deduper: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
}
