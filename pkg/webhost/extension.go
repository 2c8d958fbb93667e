package webhost

import (
	"context"
	"net/http"
	"reflect"

	"github.com/agentstation/webhost/pkg/data"
	"github.com/agentstation/webhost/pkg/logger"
	"github.com/agentstation/webhost/pkg/mediator"
)

type extensionKey struct{}

// extension is one injected value; the chain is walked newest first.
type extension struct {
	key   reflect.Type
	value any
	next  *extension
}

func withExtension(ctx context.Context, key reflect.Type, value any) context.Context {
	parent, _ := ctx.Value(extensionKey{}).(*extension)
	return context.WithValue(ctx, extensionKey{}, &extension{key: key, value: value, next: parent})
}

// injectExtension stores value in the context of every request it wraps.
func injectExtension(value any) func(http.Handler) http.Handler {
	key := reflect.TypeOf(value)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(withExtension(r.Context(), key, value)))
		})
	}
}

// ExtensionFrom returns the value of type T injected into ctx. T must be
// the exact type that was registered, for example *Shared[Settings].
func ExtensionFrom[T any](ctx context.Context) (T, bool) {
	key := reflect.TypeOf((*T)(nil)).Elem()
	for e, _ := ctx.Value(extensionKey{}).(*extension); e != nil; e = e.next {
		if e.key == key {
			return e.value.(T), true
		}
	}
	var zero T
	return zero, false
}

// Extension returns the value of type T injected into the request.
func Extension[T any](r *http.Request) (T, bool) {
	return ExtensionFrom[T](r.Context())
}

// MustExtension is Extension for handlers that cannot run without T.
func MustExtension[T any](r *http.Request) T {
	v, ok := Extension[T](r)
	if !ok {
		panic("programming error: no " + reflect.TypeOf((*T)(nil)).Elem().String() + " registered on the host")
	}
	return v
}

// LoggerFrom returns the handle registered with AddLogger.
func LoggerFrom(r *http.Request) (*Shared[logger.Logger], bool) {
	return Extension[*Shared[logger.Logger]](r)
}

// MediatorFrom returns the handle registered with AddMediator.
func MediatorFrom(r *http.Request) (*Shared[*mediator.Mediator], bool) {
	return Extension[*Shared[*mediator.Mediator]](r)
}

// RepositoryFrom returns the handle registered with AddRepository for
// entity type E.
func RepositoryFrom[E any](r *http.Request) (*Shared[data.Repository[E]], bool) {
	return Extension[*Shared[data.Repository[E]]](r)
}

// SettingsFrom returns a settings handle registered with AddSettings.
func SettingsFrom[S any](r *http.Request) (*Shared[S], bool) {
	return Extension[*Shared[S]](r)
}
