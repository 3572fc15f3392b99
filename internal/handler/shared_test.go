package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocollect/platform/internal/repository"
)

func newSharedTest(t *testing.T) (*SharedHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSharedHandler(repository.NewNotificationRepo(db), repository.NewMessageRepo(db), repository.NewWasteGuideRepo(db)), mock
}

func TestSendMessageValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty content", `{"content":"  "}`, "content is required"},
		{"too long", `{"content":"` + strings.Repeat("a", 2001) + `"}`, "Message too long."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, mock := newSharedTest(t)
			e := echo.New()
			rec := httptest.NewRecorder()
			c := citizenContext(e, jsonRequest(http.MethodPost, "/v1/messages", tc.body), rec)

			require.NoError(t, h.SendMessage(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSendMessageCitizenDefaultsToAdminInbox(t *testing.T) {
	h, mock := newSharedTest(t)
	// A citizen message with no receiver lands in the shared admin inbox,
	// stored with a NULL receiver_id.
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(uint64(7), nil, "Where do I drop off batteries?").
		WillReturnResult(sqlmock.NewResult(1, 1))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := citizenContext(e, jsonRequest(http.MethodPost, "/v1/messages", `{"content":"Where do I drop off batteries?"}`), rec)

	require.NoError(t, h.SendMessage(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageAdminMustAddressAUser(t *testing.T) {
	h, mock := newSharedTest(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := adminContext(e, jsonRequest(http.MethodPost, "/v1/messages", `{"content":"Thanks, resolved."}`), rec)

	require.NoError(t, h.SendMessage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "receiver_id is required")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationReadRejectsBadID(t *testing.T) {
	h, mock := newSharedTest(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := citizenContext(e, jsonRequest(http.MethodPatch, "/v1/notifications/abc/read", ""), rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.MarkNotificationRead(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
