package todo

import (
	"context"
	"time"

	"github.com/agentstation/webhost/pkg/data"
	"github.com/agentstation/webhost/pkg/errors"
	"github.com/agentstation/webhost/pkg/logger"
	"github.com/agentstation/webhost/pkg/mediator"
	"github.com/agentstation/webhost/pkg/webhost"
)

// CreateTodo adds a todo.
type CreateTodo struct {
	Title string
}

// ListTodos returns every todo in insertion order.
type ListTodos struct{}

// UpdateTodo changes the fields of Input that are set.
type UpdateTodo struct {
	ID    string
	Input Input
}

// DeleteTodo removes a todo.
type DeleteTodo struct {
	ID string
}

// Action names a change in Changed.
type Action string

// Actions published in Changed notifications.
const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// Changed is published after every successful write.
type Changed struct {
	ID     string
	Action Action
}

type service struct {
	m   *mediator.Mediator
	now func() time.Time
}

// Register installs the todo request handlers on m and a subscriber that
// reports changes to the injected logger. Handlers find the repository in
// the request context.
func Register(m *mediator.Mediator) error {
	return register(m, time.Now)
}

func register(m *mediator.Mediator, now func() time.Time) error {
	s := &service{m: m, now: now}

	if err := mediator.Register[CreateTodo, Todo](m, mediator.RequestHandlerFunc[CreateTodo, Todo](s.create)); err != nil {
		return err
	}
	if err := mediator.Register[ListTodos, []Todo](m, mediator.RequestHandlerFunc[ListTodos, []Todo](s.list)); err != nil {
		return err
	}
	if err := mediator.Register[UpdateTodo, Todo](m, mediator.RequestHandlerFunc[UpdateTodo, Todo](s.update)); err != nil {
		return err
	}
	if err := mediator.Register[DeleteTodo, struct{}](m, mediator.RequestHandlerFunc[DeleteTodo, struct{}](s.delete)); err != nil {
		return err
	}
	mediator.Subscribe[Changed](m, mediator.NotificationHandlerFunc[Changed](report))
	return nil
}

// repository runs fn with the repository injected into ctx.
func repository(ctx context.Context, fn func(data.Repository[Todo]) error) error {
	handle, ok := webhost.ExtensionFrom[*webhost.Shared[data.Repository[Todo]]](ctx)
	if !ok {
		return errors.NewNotFoundError("extension", "todo repository")
	}
	return handle.With(ctx, fn)
}

func (s *service) create(ctx context.Context, req CreateTodo) (Todo, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return Todo{}, err
	}

	now := s.now().UTC()
	t := Todo{Title: title, CreatedAt: now, UpdatedAt: now}
	err = repository(ctx, func(repo data.Repository[Todo]) error {
		id, err := repo.Add(ctx, t)
		if err != nil {
			return err
		}
		// The ID is only known after the first write.
		t.ID = id
		return repo.Update(ctx, id, t)
	})
	if err != nil {
		return Todo{}, err
	}
	return t, s.publish(ctx, Changed{ID: t.ID, Action: Created})
}

func (s *service) list(ctx context.Context, _ ListTodos) ([]Todo, error) {
	var todos []Todo
	err := repository(ctx, func(repo data.Repository[Todo]) error {
		var err error
		todos, err = repo.List(ctx)
		return err
	})
	if todos == nil {
		todos = []Todo{}
	}
	return todos, err
}

func (s *service) update(ctx context.Context, req UpdateTodo) (Todo, error) {
	var title string
	if req.Input.Title != nil {
		var err error
		if title, err = validateTitle(*req.Input.Title); err != nil {
			return Todo{}, err
		}
	}

	var t Todo
	err := repository(ctx, func(repo data.Repository[Todo]) error {
		var err error
		if t, err = repo.Get(ctx, req.ID); err != nil {
			return err
		}
		if req.Input.Title != nil {
			t.Title = title
		}
		if req.Input.Done != nil {
			t.Done = *req.Input.Done
		}
		t.UpdatedAt = s.now().UTC()
		return repo.Update(ctx, req.ID, t)
	})
	if err != nil {
		return Todo{}, err
	}
	return t, s.publish(ctx, Changed{ID: t.ID, Action: Updated})
}

func (s *service) delete(ctx context.Context, req DeleteTodo) (struct{}, error) {
	err := repository(ctx, func(repo data.Repository[Todo]) error {
		return repo.Delete(ctx, req.ID)
	})
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, s.publish(ctx, Changed{ID: req.ID, Action: Deleted})
}

func (s *service) publish(ctx context.Context, c Changed) error {
	return mediator.Publish[Changed](ctx, s.m, c)
}

// report writes a change to the injected logger, if there is one.
func report(ctx context.Context, c Changed) error {
	handle, ok := webhost.ExtensionFrom[*webhost.Shared[logger.Logger]](ctx)
	if !ok {
		return nil
	}
	return handle.With(ctx, func(l logger.Logger) error {
		l.Information("todo " + c.ID + " " + string(c.Action))
		return nil
	})
}
