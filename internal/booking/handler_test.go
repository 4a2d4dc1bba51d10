package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwave/backend/internal/middleware"
	"github.com/seatwave/backend/internal/models"
	"github.com/seatwave/backend/pkg/response"
)

type fakeReader struct {
	count    int
	countErr error
	list     []models.ParticipantDetail
	listErr  error
}

func (f *fakeReader) CountByWebinar(_ context.Context, _ uuid.UUID) (int, error) {
	return f.count, f.countErr
}

func (f *fakeReader) ListDetailed(_ context.Context, _ uuid.UUID) ([]models.ParticipantDetail, error) {
	return f.list, f.listErr
}

func newTestRouter(h *Handler, userID uuid.UUID, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.ContextUserID, userID)
			c.Set(middleware.ContextUserEmail, email)
		}
		c.Next()
	})
	r.POST("/webinars/:id/book", h.Book)
	r.GET("/webinars/:id/availability", h.Availability)
	r.GET("/webinars/:id/participants", h.Participants)
	return r
}

func handlerFixture(t *testing.T, seats int) (*fakeParticipationStore, *fakeNotifier, *fakeReader, *Handler) {
	t.Helper()
	webinars, participations, notifier, svc := newFixture(seats)
	reader := &fakeReader{}
	h := NewHandler(svc, webinars, reader, nil)
	return participations, notifier, reader, h
}

func TestHandlerBook_Created(t *testing.T) {
	participations, notifier, _, h := handlerFixture(t, 2)
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webinars/"+webinarID.String()+"/book", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, participations.saved, 1)
	assert.Len(t, notifier.sent, 1)

	var body response.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
}

func TestHandlerBook_InvalidID(t *testing.T) {
	_, _, _, h := handlerFixture(t, 2)
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webinars/not-a-uuid/book", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerBook_MissingUserContext(t *testing.T) {
	_, _, _, h := handlerFixture(t, 2)
	r := newTestRouter(h, uuid.Nil, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webinars/"+webinarID.String()+"/book", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerBook_WebinarNotFound(t *testing.T) {
	_, _, _, h := handlerFixture(t, 2)
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webinars/"+uuid.New().String()+"/book", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerBook_ConflictOnFullWebinar(t *testing.T) {
	participations, _, _, h := handlerFixture(t, 2)
	participations.saved = []models.Participation{
		{WebinarID: webinarID, UserID: user2ID},
		{WebinarID: webinarID, UserID: user3ID},
	}
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webinars/"+webinarID.String()+"/book", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerBook_ConflictOnDuplicate(t *testing.T) {
	participations, _, _, h := handlerFixture(t, 2)
	participations.saved = []models.Participation{
		{WebinarID: webinarID, UserID: user1ID},
	}
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webinars/"+webinarID.String()+"/book", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerBook_StorageFailure(t *testing.T) {
	participations, _, _, h := handlerFixture(t, 2)
	participations.saveErr = errors.New("insert failed")
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webinars/"+webinarID.String()+"/book", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerAvailability(t *testing.T) {
	_, _, reader, h := handlerFixture(t, 2)
	reader.count = 1
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webinars/"+webinarID.String()+"/availability", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Seats     int `json:"seats"`
			Booked    int `json:"booked"`
			Remaining int `json:"remaining"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Seats)
	assert.Equal(t, 1, body.Data.Booked)
	assert.Equal(t, 1, body.Data.Remaining)
}

func TestHandlerParticipants(t *testing.T) {
	_, _, reader, h := handlerFixture(t, 2)
	reader.list = []models.ParticipantDetail{
		{WebinarID: webinarID, UserID: user1ID, Email: "user1@example.com", FullName: "User One"},
	}
	r := newTestRouter(h, user1ID, "user1@example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webinars/"+webinarID.String()+"/participants", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []models.ParticipantDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "user1@example.com", body.Data[0].Email)
}
