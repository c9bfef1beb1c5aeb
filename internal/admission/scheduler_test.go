package admission

import (
	"context"
	"testing"

	"ticketflow/pkg/clock"

	"github.com/google/uuid"
)

func TestSweepDrainsEveryQueue(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, testConfig(), clock.NewSystem())

	eventA := uuid.New()
	eventB := uuid.New()
	tokenA, _ := svc.Enter(context.Background(), eventA, "user-a")
	tokenB, _ := svc.Enter(context.Background(), eventB, "user-b")

	scheduler := NewScheduler(svc, repo, testConfig())
	scheduler.Sweep(context.Background())

	for _, token := range []string{tokenA.Token, tokenB.Token} {
		status, err := svc.Status(context.Background(), token)
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if status.Status != StatusReady {
			t.Errorf("token status = %s, want READY", status.Status)
		}
	}
}

func TestSweepSkipsNonQueueKeys(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, testConfig(), clock.NewSystem())

	eventID := uuid.New()
	entry, _ := svc.Enter(context.Background(), eventID, "user-a")

	// Ready sets, token hashes and garbage must not abort the sweep
	repo.extraKeys = append(repo.extraKeys,
		"queue:ready:"+uuid.NewString(),
		"queue:token:"+uuid.NewString(),
		"queue:not-a-uuid",
	)

	scheduler := NewScheduler(svc, repo, testConfig())
	scheduler.Sweep(context.Background())

	status, err := svc.Status(context.Background(), entry.Token)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Status != StatusReady {
		t.Errorf("token status = %s, want READY", status.Status)
	}
}

func TestParseEventIDFromQueueKey(t *testing.T) {
	eventID := uuid.New()

	tests := []struct {
		name    string
		key     string
		want    uuid.UUID
		wantErr bool
	}{
		{"waiting queue key", "queue:" + eventID.String(), eventID, false},
		{"ready set key", "queue:ready:" + eventID.String(), uuid.Nil, true},
		{"token hash key", "queue:token:" + uuid.NewString(), uuid.Nil, true},
		{"unrelated key", "cache:seatmap:" + eventID.String(), uuid.Nil, true},
		{"malformed suffix", "queue:oops", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEventIDFromQueueKey(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.key)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEventIDFromQueueKey(%q): %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
