package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/bpmnflow/service/dao"
)

type record struct {
	ID    string
	Group string
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	srv := NewMemoryStore[string, record](func(r *record) string { return r.ID }).
		WithFilter(func(r *record, parameters []*dao.Parameter) bool {
			return r.Group == parameters[0].Value
		})
	var _ dao.Service[string, record] = srv

	require.NoError(t, srv.Save(ctx, &record{ID: "b", Group: "x"}))
	require.NoError(t, srv.Save(ctx, &record{ID: "a", Group: "y"}))
	require.NoError(t, srv.Save(ctx, &record{ID: "b", Group: "y"}))
	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)

	all, err := srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "y", all[0].Group)

	filtered, err := srv.List(ctx, dao.NewParameter("group", "x"))
	require.NoError(t, err)
	assert.Empty(t, filtered)

	missing, err := srv.Load(ctx, "z")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.Equal(t, 2, srv.Len())
}
