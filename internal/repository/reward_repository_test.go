package repository

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rewardByIDQuery = "SELECT id, title, description, points_cost, category FROM rewards WHERE id = ? LIMIT 1"
	debitQuery      = "UPDATE users SET points = points - ? WHERE id = ? AND points >= ?"
)

func newRewardRepoMock(t *testing.T) (*RewardRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRewardRepo(db), mock
}

func expectRewardRow(mock sqlmock.Sqlmock, id uint64, title string, cost int64) {
	mock.ExpectQuery(regexp.QuoteMeta(rewardByIDQuery)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "points_cost", "category"}).
			AddRow(id, title, "", cost, "eco"))
}

func TestRedeemCommitsDebitRedemptionAndNotification(t *testing.T) {
	repo, mock := newRewardRepoMock(t)

	expectRewardRow(mock, 3, "Reusable Bottle", 120)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(debitQuery)).
		WithArgs(int64(120), uint64(7), int64(120)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO redemptions (user_id, reward_id, code) VALUES (?, ?, ?)")).
		WithArgs(uint64(7), uint64(3), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications (user_id, title, message, type) VALUES (?, ?, ?, ?)")).
		WithArgs(uint64(7), "Reward Redeemed!", `You successfully redeemed "Reusable Bottle" for 120 points.`, "success").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	red, reward, err := repo.Redeem(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), red.ID)
	assert.Equal(t, uint64(7), red.UserID)
	assert.Equal(t, uint64(3), red.RewardID)
	assert.True(t, strings.HasPrefix(red.Code, "ECO-"), "code %q", red.Code)
	assert.Equal(t, "Reusable Bottle", reward.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemInsufficientPointsRollsBack(t *testing.T) {
	repo, mock := newRewardRepoMock(t)

	expectRewardRow(mock, 3, "Reusable Bottle", 120)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(debitQuery)).
		WithArgs(int64(120), uint64(7), int64(120)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = ? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectRollback()

	_, _, err := repo.Redeem(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemMissingReward(t *testing.T) {
	repo, mock := newRewardRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(rewardByIDQuery)).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.Redeem(context.Background(), 7, 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemRedemptionInsertFailureRollsBack(t *testing.T) {
	repo, mock := newRewardRepoMock(t)

	expectRewardRow(mock, 3, "Reusable Bottle", 120)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(debitQuery)).
		WithArgs(int64(120), uint64(7), int64(120)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO redemptions")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, _, err := repo.Redeem(context.Background(), 7, 3)
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}
