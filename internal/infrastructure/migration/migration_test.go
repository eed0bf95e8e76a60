package migration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sqls   []string
	failAt int
}

func (r *recorder) Exec(_ context.Context, sql string, _ ...interface{}) (pgconn.CommandTag, error) {
	if r.failAt > 0 && len(r.sqls)+1 == r.failAt {
		return nil, errors.New("boom")
	}
	r.sqls = append(r.sqls, sql)
	return pgconn.CommandTag("CREATE TABLE"), nil
}

func TestRunMigrations(t *testing.T) {
	r := &recorder{}
	require.NoError(t, RunMigrations(context.Background(), r))
	require.Len(t, r.sqls, len(Migrations))
	assert.Contains(t, r.sqls[0], "resumes")
	for _, s := range r.sqls {
		assert.True(t, strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS"))
	}
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	r := &recorder{failAt: 2}
	err := RunMigrations(context.Background(), r)
	assert.EqualError(t, err, "boom")
	assert.Len(t, r.sqls, 1)
}
