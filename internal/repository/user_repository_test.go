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

const adjustPointsQuery = "UPDATE users SET points = points + ? WHERE id = ? AND points + ? >= 0"

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestAdjustPointsCredit(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(adjustPointsQuery)).
		WithArgs(int64(50), uint64(1), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AdjustPoints(context.Background(), 1, 50))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustPointsDebitPastZero(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	// The conditional UPDATE matches no row when the balance is too low;
	// the follow-up existence probe tells a rejected debit apart from a
	// missing user.
	mock.ExpectExec(regexp.QuoteMeta(adjustPointsQuery)).
		WithArgs(int64(-500), uint64(1), int64(-500)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := repo.AdjustPoints(context.Background(), 1, -500)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustPointsMissingUser(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(adjustPointsQuery)).
		WithArgs(int64(10), uint64(404), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id=? LIMIT 1")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	err := repo.AdjustPoints(context.Background(), 404, 10)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errDuplicateKey{})

	_, err := repo.Create(context.Background(), "Sam", "sam@example.com", "hunter22", "citizen", nil, nil, 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

// errDuplicateKey mimics the driver's duplicate-key error text.
type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return "Error 1062 (23000): Duplicate entry 'sam@example.com' for key 'users.email'"
}
