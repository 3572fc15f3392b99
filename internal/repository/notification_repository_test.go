package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notifOwnerQuery = "SELECT user_id FROM notifications WHERE id=? LIMIT 1"

func newNotifRepoMock(t *testing.T) (*NotificationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNotificationRepo(db), mock
}

func TestMarkReadByOwner(t *testing.T) {
	repo, mock := newNotifRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(notifOwnerQuery)).
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read=1 WHERE id=? AND user_id=?")).
		WithArgs(uint64(12), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkRead(context.Background(), 12, 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadForeignNotification(t *testing.T) {
	repo, mock := newNotifRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(notifOwnerQuery)).
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(99))

	err := repo.MarkRead(context.Background(), 12, 7)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadMissingNotification(t *testing.T) {
	repo, mock := newNotifRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(notifOwnerQuery)).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	err := repo.MarkRead(context.Background(), 404, 7)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
