package syncx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hammad-111/HamSync-sub000/internal/db"
)

func TestAppendAndSince(t *testing.T) {
	ctx := context.Background()
	h, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	defer h.Close()

	repo := NewEventRepo(h, "")
	require.NoError(t, repo.Append(ctx, nil, TypeResultSaved, "r1", map[string]string{"institution": "uet"}))
	require.NoError(t, db.WithTx(ctx, h, func(tx *sql.Tx) error {
		return repo.Append(ctx, tx, TypeResultDeleted, "r1", map[string]string{"id": "r1"})
	}))

	all, err := repo.Since(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, TypeResultSaved, all[0].Type)
	assert.Equal(t, "local", all[0].SiteID)
	assert.JSONEq(t, `{"institution":"uet"}`, string(all[0].Data))
	assert.Less(t, all[0].Seq, all[1].Seq)

	rest, err := repo.Since(ctx, all[0].Seq, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, TypeResultDeleted, rest[0].Type)
}
