package data_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/webhost/pkg/data"
	pkgerrors "github.com/agentstation/webhost/pkg/errors"
)

func TestNewPostgresRejectsBadTable(t *testing.T) {
	for _, table := range []string{"", "Notes", "notes; drop table x", "1notes"} {
		_, err := data.NewPostgres[note](nil, table)
		assert.True(t, pkgerrors.IsValidationError(err), table)
	}
}

func TestPostgresCRUD(t *testing.T) {
	dsn := os.Getenv("WEBHOST_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("WEBHOST_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := data.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	table := fmt.Sprintf("notes_test_%d", time.Now().UnixNano())
	repo, err := data.NewPostgres[note](pool, table)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
	})

	id, err := repo.Add(ctx, note{Title: "first"})
	require.NoError(t, err)
	_, err = repo.Add(ctx, note{Title: "second"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	require.NoError(t, repo.Update(ctx, id, note{Title: "first", Done: true}))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, note{Title: "first", Done: true}, list[0])

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.True(t, pkgerrors.IsNotFound(repo.Delete(ctx, id)))
	assert.True(t, pkgerrors.IsNotFound(repo.Update(ctx, id, note{})))
}
