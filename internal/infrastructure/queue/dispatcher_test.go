package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookinghub/user-service/internal/core/domain"
)

type captureProcessor struct {
	events chan domain.AuditEvent
}

func (p *captureProcessor) Process(_ context.Context, event domain.AuditEvent) error {
	p.events <- event
	return nil
}

func TestDispatcher_RecordDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := &captureProcessor{events: make(chan domain.AuditEvent, 8)}
	d := NewDispatcher(2, proc, zerolog.Nop())
	d.Start(ctx)

	sent := domain.AuditEvent{Username: "alice", Action: domain.AuditActionLogin, Result: "success", Timestamp: time.Now().UTC()}
	d.Record(sent)

	select {
	case got := <-proc.events:
		if got.Username != "alice" || got.Action != domain.AuditActionLogin {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event never processed")
	}
}

func TestDispatcher_ShardIsStablePerUsername(t *testing.T) {
	d := NewDispatcher(4, &captureProcessor{events: make(chan domain.AuditEvent, 1)}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}
