package payments

import (
	"context"
	"fmt"
	"sync"

	"ticketflow/internal/shared/apperrors"
)

// OrderKind identifies which domain a payment order belongs to. New order
// families (merchandise, memberships) register their own kind.
type OrderKind string

const OrderKindTicket OrderKind = "TICKET"

// Processor finalizes a confirmed payment for one order kind.
type Processor interface {
	ProcessConfirmedPayment(ctx context.Context, req ConfirmRequest) error
}

// KindResolver maps an order ID to its kind, typically by looking the order
// up in the owning domain's store.
type KindResolver interface {
	ResolveOrderKind(ctx context.Context, orderID string) (OrderKind, bool, error)
}

// Registry routes confirmed payments to the processor owning the order.
// Registration happens once at startup; Dispatch runs concurrently.
type Registry struct {
	mu         sync.RWMutex
	processors map[OrderKind]Processor
	resolvers  []KindResolver
}

func NewRegistry() *Registry {
	return &Registry{
		processors: make(map[OrderKind]Processor),
	}
}

// Register binds a processor to an order kind. Registering the same kind
// twice is a wiring bug.
func (r *Registry) Register(kind OrderKind, processor Processor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.processors[kind]; exists {
		return fmt.Errorf("processor already registered for order kind %s", kind)
	}
	r.processors[kind] = processor
	return nil
}

// AddResolver appends a resolver consulted in registration order.
func (r *Registry) AddResolver(resolver KindResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers = append(r.resolvers, resolver)
}

// Dispatch resolves the order's kind and hands the confirmation to the
// owning processor.
func (r *Registry) Dispatch(ctx context.Context, req ConfirmRequest) error {
	r.mu.RLock()
	resolvers := r.resolvers
	r.mu.RUnlock()

	for _, resolver := range resolvers {
		kind, found, err := resolver.ResolveOrderKind(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if !found {
			continue
		}

		r.mu.RLock()
		processor, ok := r.processors[kind]
		r.mu.RUnlock()
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownOrderKind, kind)
		}
		return processor.ProcessConfirmedPayment(ctx, req)
	}

	return apperrors.ErrOrderNotFound
}
