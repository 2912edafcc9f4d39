package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	installed bool
	handler   []byte
	downAuth  []byte
	err       error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = r.installed
	*dest[1].(*[]byte) = r.handler
	*dest[2].(*[]byte) = r.downAuth
	return nil
}

type fakeQuerier struct {
	rows  map[string]fakeRow
	query string
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.query = sql
	row, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return row
}

func TestPostgresQuery(t *testing.T) {
	q := &fakeQuerier{}
	p := newPostgres(q, "extension_connectors")
	_, _ = p.Find(context.Background(), "x")
	assert.Equal(t, `SELECT installed, handler, downstream_auth FROM "extension_connectors" WHERE id = $1`, q.query)
}

func TestPostgresFind(t *testing.T) {
	q := &fakeQuerier{rows: map[string]fakeRow{
		"slack":  {installed: true, handler: []byte(`{"type":"inproc","name":"slack"}`)},
		"signed": {installed: true, handler: []byte(`{"type":"inproc","name":"s"}`), downAuth: []byte(`{"type":"signed-assertion","secretEnv":"S"}`)},
		"off":    {installed: false, handler: []byte(`{"type":"inproc","name":"off"}`)},
		"bad":    {installed: true, handler: []byte(`not json`)},
		"err":    {err: errors.New("conn reset")},
	}}
	p := newPostgres(q, "extension_connectors")
	ctx := context.Background()

	c, err := p.Find(ctx, "slack")
	require.NoError(t, err)
	assert.Equal(t, "slack", c.Handler.Name)
	assert.Nil(t, c.DownAuth)

	c, err = p.Find(ctx, "signed")
	require.NoError(t, err)
	require.NotNil(t, c.DownAuth)
	assert.Equal(t, "signed-assertion", c.DownAuth.Type)

	_, err = p.Find(ctx, "off")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Find(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Find(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = p.Find(ctx, "err")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidRecord)

	assert.NoError(t, p.Close())
}
