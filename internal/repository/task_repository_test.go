package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocollect/platform/internal/model"
)

const (
	claimQuery     = "UPDATE tasks SET status = ?, collector_id = ? WHERE id = ? AND (collector_id IS NULL OR collector_id = ?)"
	taskByIDQuery  = "SELECT id, address, type, status, bins, time_window, collector_id, created_at FROM tasks WHERE id = ? LIMIT 1"
	taskOwnerQuery = "SELECT collector_id FROM tasks WHERE id = ?"
)

func newTaskRepoMock(t *testing.T) (*TaskRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTaskRepo(db), mock
}

func taskRows(collectorID any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "address", "type", "status", "bins", "time_window", "collector_id", "created_at"}).
		AddRow(5, "12 Elm St", "general", model.TaskInProgress, 2, model.DefaultTimeWindow, collectorID, time.Now())
}

func TestClaimAndUpdateStatusClaimsOpenTask(t *testing.T) {
	repo, mock := newTaskRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(claimQuery)).
		WithArgs(model.TaskInProgress, uint64(7), uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(taskByIDQuery)).
		WithArgs(uint64(5)).
		WillReturnRows(taskRows(int64(7)))

	task, err := repo.ClaimAndUpdateStatus(context.Background(), 5, 7, model.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, task.Status)
	require.NotNil(t, task.CollectorID)
	assert.Equal(t, uint64(7), *task.CollectorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimAndUpdateStatusLosesRace(t *testing.T) {
	repo, mock := newTaskRepoMock(t)

	// Another collector claimed the task between the read and the write;
	// the conditional UPDATE matches nothing and the re-read shows a
	// different owner.
	mock.ExpectExec(regexp.QuoteMeta(claimQuery)).
		WithArgs(model.TaskInProgress, uint64(7), uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(taskOwnerQuery)).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"collector_id"}).AddRow(99))

	_, err := repo.ClaimAndUpdateStatus(context.Background(), 5, 7, model.TaskInProgress)
	assert.ErrorIs(t, err, ErrTaskClaimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimAndUpdateStatusMissingTask(t *testing.T) {
	repo, mock := newTaskRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(claimQuery)).
		WithArgs(model.TaskCompleted, uint64(7), uint64(404), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(taskOwnerQuery)).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ClaimAndUpdateStatus(context.Background(), 404, 7, model.TaskCompleted)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimAndUpdateStatusReapplySameStatus(t *testing.T) {
	repo, mock := newTaskRepoMock(t)

	// MySQL reports zero changed rows when the new values equal the old
	// ones. The owner re-read shows the caller already holds the claim, so
	// the call succeeds as a no-op.
	mock.ExpectExec(regexp.QuoteMeta(claimQuery)).
		WithArgs(model.TaskInProgress, uint64(7), uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(taskOwnerQuery)).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"collector_id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(taskByIDQuery)).
		WithArgs(uint64(5)).
		WillReturnRows(taskRows(int64(7)))

	task, err := repo.ClaimAndUpdateStatus(context.Background(), 5, 7, model.TaskInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, task.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
