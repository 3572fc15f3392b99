package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocollect/platform/internal/repository"
)

func newCitizenTest(t *testing.T) (*CitizenHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewCitizenHandler(
		repository.NewReportRepo(db),
		repository.NewUserRepo(db),
		repository.NewNotificationRepo(db),
		repository.NewTaskRepo(db),
	)
	return h, mock
}

func TestSubmitReportValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing type", `{"type":"","description":"litter"}`, "type is required"},
		{"description too long", `{"type":"litter","description":"` + strings.Repeat("x", 1001) + `"}`, "Description too long."},
		{"location too long", `{"type":"litter","location":"` + strings.Repeat("x", 201) + `"}`, "Location too long."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newCitizenTest(t)
			e := echo.New()
			rec := httptest.NewRecorder()
			c := citizenContext(e, jsonRequest(http.MethodPost, "/v1/reports", tt.body), rec)

			require.NoError(t, h.SubmitReport(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSubmitReportCountsCharactersNotBytes(t *testing.T) {
	h, mock := newCitizenTest(t)

	// 600 accented characters are 1200 bytes but still inside the
	// 1000-character limit; the 60-character type is cut to 50 whole
	// runes, never mid-sequence.
	desc := strings.Repeat("é", 600)
	wantType := strings.Repeat("é", 50)
	require.True(t, utf8.ValidString(wantType))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reports").
		WithArgs(uint64(7), wantType, desc, "Central Park", nil, "pending").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectQuery("SELECT created_at FROM reports").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`UPDATE users SET points = points \+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	e := echo.New()
	rec := httptest.NewRecorder()
	body := `{"type":"` + strings.Repeat("é", 60) + `","description":"` + desc + `","location":"Central Park"}`
	c := citizenContext(e, jsonRequest(http.MethodPost, "/v1/reports", body), rec)

	require.NoError(t, h.SubmitReport(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReportAwardsPointsInOneTransaction(t *testing.T) {
	h, mock := newCitizenTest(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reports").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectQuery("SELECT created_at FROM reports").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`UPDATE users SET points = points \+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(uint64(7), "Report Submitted", "Your litter report has been successfully filed in Central Park.", "success").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	e := echo.New()
	rec := httptest.NewRecorder()
	body := `{"type":"litter","description":"overflowing bin","location":"Central Park"}`
	c := citizenContext(e, jsonRequest(http.MethodPost, "/v1/reports", body), rec)

	require.NoError(t, h.SubmitReport(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"points_awarded":50`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReportRollsBackWhenPointsFail(t *testing.T) {
	h, mock := newCitizenTest(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reports").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectQuery("SELECT created_at FROM reports").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`UPDATE users SET points = points \+`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	e := echo.New()
	rec := httptest.NewRecorder()
	body := `{"type":"litter","description":"overflowing bin","location":"Central Park"}`
	c := citizenContext(e, jsonRequest(http.MethodPost, "/v1/reports", body), rec)

	require.NoError(t, h.SubmitReport(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
