package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/core/domain"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AssetEvent
	done   chan struct{}
	want   int
}

func newRecordingAudit(want int) *recordingAudit {
	return &recordingAudit{done: make(chan struct{}), want: want}
}

func (r *recordingAudit) Record(_ context.Context, event domain.AssetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if len(r.events) == r.want {
		close(r.done)
	}
	return nil
}

func (r *recordingAudit) snapshot() []domain.AssetEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AssetEvent, len(r.events))
	copy(out, r.events)
	return out
}

func TestDispatcher_DeliversAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	audit := newRecordingAudit(3)
	d := NewDispatcher(2, audit, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(domain.NewAssetEvent(domain.EventFolderCreated, domain.ResourceFolder, "f1", "o", "o"))
	d.Enqueue(domain.NewAssetEvent(domain.EventNoteCreated, domain.ResourceNote, "n1", "o", "o"))
	d.Enqueue(domain.NewAssetEvent(domain.EventNoteDeleted, domain.ResourceNote, "n2", "o", "o"))

	select {
	case <-audit.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("events not delivered: got %d", len(audit.snapshot()))
	}
}

func TestDispatcher_PerResourceOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const n = 20
	audit := newRecordingAudit(n)
	d := NewDispatcher(4, audit, zerolog.Nop())
	d.Start(ctx)

	types := []string{
		domain.EventNoteCreated,
		domain.EventNoteUpdated,
		domain.EventNoteDeleted,
	}
	for i := 0; i < n; i++ {
		d.Enqueue(domain.NewAssetEvent(types[i%len(types)], domain.ResourceNote, "same-note", "o", "o"))
	}

	select {
	case <-audit.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("events not delivered: got %d", len(audit.snapshot()))
	}

	// one resource hashes to one worker, so emission order is preserved
	events := audit.snapshot()
	for i, e := range events {
		if e.Type != types[i%len(types)] {
			t.Fatalf("event %d out of order: got %s, want %s", i, e.Type, types[i%len(types)])
		}
	}
}

func TestDispatcher_ShardStable(t *testing.T) {
	d := NewDispatcher(4, nil, zerolog.Nop())
	first := d.shardIndex("resource-a")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("resource-a"); got != first {
			t.Fatalf("shard index unstable: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
