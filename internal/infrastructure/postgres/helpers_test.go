package postgres_test

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

const (
	aliceID   = "11111111-1111-4111-8111-111111111111"
	bobID     = "22222222-2222-4222-8222-222222222222"
	postID    = "33333333-3333-4333-8333-333333333333"
	commentID = "44444444-4444-4444-8444-444444444444"
	listID    = "55555555-5555-4555-8555-555555555555"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func ptr(s string) *string { return &s }

func postRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "title", "description", "image_link", "author_id", "created_at", "updated_at"})
}

func commentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "comment_text", "post_id", "author_id", "created_at"})
}
