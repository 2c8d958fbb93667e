// Package mediator dispatches requests and notifications to handlers by
// message type.
//
// A request has exactly one handler; a notification may have any number of
// subscribers. Handlers are registered with the generic package functions
// because Go methods cannot carry type parameters:
//
//	m := mediator.New()
//	_ = mediator.Register(m, mediator.RequestHandlerFunc[CreateTodo, Todo](createTodo))
//	todo, err := mediator.Send[CreateTodo, Todo](ctx, m, CreateTodo{Title: "write docs"})
package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	pkgerrors "github.com/agentstation/webhost/pkg/errors"
)

// RequestHandler handles one request type.
type RequestHandler[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Handle calls f.
func (f RequestHandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// NotificationHandler receives one notification type.
type NotificationHandler[N any] interface {
	Notify(ctx context.Context, n N) error
}

// NotificationHandlerFunc adapts a function to NotificationHandler.
type NotificationHandlerFunc[N any] func(ctx context.Context, n N) error

// Notify calls f.
func (f NotificationHandlerFunc[N]) Notify(ctx context.Context, n N) error {
	return f(ctx, n)
}

// Mediator holds the handler registries. It is safe for concurrent use.
type Mediator struct {
	mu          sync.RWMutex
	requests    map[reflect.Type]any
	subscribers map[reflect.Type][]any
}

// New returns an empty Mediator.
func New() *Mediator {
	return &Mediator{
		requests:    make(map[reflect.Type]any),
		subscribers: make(map[reflect.Type][]any),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register installs the handler for Req. A second handler for the same
// request type is rejected.
func Register[Req, Resp any](m *Mediator, h RequestHandler[Req, Resp]) error {
	key := typeOf[Req]()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[key]; ok {
		return pkgerrors.NewAlreadyExistsError("request handler", key.String())
	}
	m.requests[key] = h
	return nil
}

// Send dispatches req to its handler.
func Send[Req, Resp any](ctx context.Context, m *Mediator, req Req) (Resp, error) {
	var zero Resp
	key := typeOf[Req]()

	m.mu.RLock()
	registered, ok := m.requests[key]
	m.mu.RUnlock()

	if !ok {
		return zero, pkgerrors.NewNotFoundError("request handler", key.String())
	}
	h, ok := registered.(RequestHandler[Req, Resp])
	if !ok {
		return zero, pkgerrors.NewValidationError("response", typeOf[Resp]().String(),
			fmt.Sprintf("handler for %s returns a different type", key))
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return h.Handle(ctx, req)
}

// Subscribe adds a handler for notifications of type N.
func Subscribe[N any](m *Mediator, h NotificationHandler[N]) {
	key := typeOf[N]()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[key] = append(m.subscribers[key], h)
}

// Publish delivers n to every subscriber in subscription order. Every
// subscriber runs; their errors are joined.
func Publish[N any](ctx context.Context, m *Mediator, n N) error {
	key := typeOf[N]()

	m.mu.RLock()
	subs := append([]any(nil), m.subscribers[key]...)
	m.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.(NotificationHandler[N]).Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HasHandler reports whether a request handler is registered for Req.
func HasHandler[Req any](m *Mediator) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.requests[typeOf[Req]()]
	return ok
}
