package payments

import (
	"context"
	"errors"
	"testing"

	"ticketflow/internal/shared/apperrors"
)

type fakeResolver struct {
	kinds map[string]OrderKind
}

func (f *fakeResolver) ResolveOrderKind(_ context.Context, orderID string) (OrderKind, bool, error) {
	kind, ok := f.kinds[orderID]
	return kind, ok, nil
}

type recordingProcessor struct {
	calls []ConfirmRequest
	err   error
}

func (p *recordingProcessor) ProcessConfirmedPayment(_ context.Context, req ConfirmRequest) error {
	p.calls = append(p.calls, req)
	return p.err
}

func TestDispatchRoutesByKind(t *testing.T) {
	registry := NewRegistry()
	tickets := &recordingProcessor{}
	if err := registry.Register(OrderKindTicket, tickets); err != nil {
		t.Fatalf("Register: %v", err)
	}
	registry.AddResolver(&fakeResolver{kinds: map[string]OrderKind{
		"tck-1": OrderKindTicket,
	}})

	req := ConfirmRequest{OrderID: "tck-1", PaymentKey: "pk", Amount: 1000}
	if err := registry.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(tickets.calls) != 1 || tickets.calls[0].OrderID != "tck-1" {
		t.Errorf("processor calls = %+v", tickets.calls)
	}
}

func TestDispatchUnknownOrder(t *testing.T) {
	registry := NewRegistry()
	registry.AddResolver(&fakeResolver{kinds: map[string]OrderKind{}})

	err := registry.Dispatch(context.Background(), ConfirmRequest{OrderID: "missing"})
	if !errors.Is(err, apperrors.ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestDispatchKindWithoutProcessor(t *testing.T) {
	registry := NewRegistry()
	registry.AddResolver(&fakeResolver{kinds: map[string]OrderKind{
		"mrc-1": OrderKind("MERCH"),
	}})

	err := registry.Dispatch(context.Background(), ConfirmRequest{OrderID: "mrc-1"})
	if !errors.Is(err, apperrors.ErrUnknownOrderKind) {
		t.Errorf("err = %v, want ErrUnknownOrderKind", err)
	}
}

func TestRegisterRejectsDuplicateKind(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(OrderKindTicket, &recordingProcessor{}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := registry.Register(OrderKindTicket, &recordingProcessor{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestDispatchTriesResolversInOrder(t *testing.T) {
	registry := NewRegistry()
	tickets := &recordingProcessor{}
	registry.Register(OrderKindTicket, tickets)

	registry.AddResolver(&fakeResolver{kinds: map[string]OrderKind{}})
	registry.AddResolver(&fakeResolver{kinds: map[string]OrderKind{
		"tck-2": OrderKindTicket,
	}})

	if err := registry.Dispatch(context.Background(), ConfirmRequest{OrderID: "tck-2"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(tickets.calls) != 1 {
		t.Errorf("calls = %d, want 1", len(tickets.calls))
	}
}
