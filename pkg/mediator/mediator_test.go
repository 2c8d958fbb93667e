package mediator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/webhost/pkg/errors"
	"github.com/agentstation/webhost/pkg/mediator"
)

type upper struct{ Text string }

type created struct{ ID string }

func upperHandler() mediator.RequestHandlerFunc[upper, string] {
	return func(_ context.Context, req upper) (string, error) {
		return strings.ToUpper(req.Text), nil
	}
}

func TestSend(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.Register[upper, string](m, upperHandler()))
	assert.True(t, mediator.HasHandler[upper](m))

	got, err := mediator.Send[upper, string](context.Background(), m, upper{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", got)
}

func TestRegisterDuplicate(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.Register[upper, string](m, upperHandler()))

	err := mediator.Register[upper, string](m, upperHandler())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsAlreadyExists(err))
}

func TestSendMissingHandler(t *testing.T) {
	m := mediator.New()

	_, err := mediator.Send[upper, string](context.Background(), m, upper{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))

	var nf *pkgerrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "request handler", nf.Resource)
}

func TestSendResponseTypeMismatch(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.Register[upper, string](m, upperHandler()))

	_, err := mediator.Send[upper, int](context.Background(), m, upper{})
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestSendCanceledContext(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.Register[upper, string](m, upperHandler()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mediator.Send[upper, string](ctx, m, upper{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublish(t *testing.T) {
	m := mediator.New()
	var order []string

	mediator.Subscribe[created](m, mediator.NotificationHandlerFunc[created](func(_ context.Context, n created) error {
		order = append(order, "first:"+n.ID)
		return nil
	}))
	mediator.Subscribe[created](m, mediator.NotificationHandlerFunc[created](func(_ context.Context, _ created) error {
		order = append(order, "second")
		return errors.New("second failed")
	}))
	mediator.Subscribe[created](m, mediator.NotificationHandlerFunc[created](func(_ context.Context, _ created) error {
		order = append(order, "third")
		return errors.New("third failed")
	}))

	err := mediator.Publish(context.Background(), m, created{ID: "42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second failed")
	assert.Contains(t, err.Error(), "third failed")
	assert.Equal(t, []string{"first:42", "second", "third"}, order)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, mediator.Publish(context.Background(), mediator.New(), created{}))
}

func TestConcurrentSend(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.Register[upper, string](m, upperHandler()))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := mediator.Send[upper, string](context.Background(), m, upper{Text: "x"})
			assert.NoError(t, err)
			assert.Equal(t, "X", got)
		}()
	}
	wg.Wait()
}
