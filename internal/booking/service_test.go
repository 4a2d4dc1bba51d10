package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwave/backend/internal/models"
)

type fakeWebinarStore struct {
	webinars map[uuid.UUID]*models.Webinar
	err      error
}

func (f *fakeWebinarStore) FindByID(_ context.Context, id uuid.UUID) (*models.Webinar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.webinars[id], nil
}

type fakeParticipationStore struct {
	saved   []models.Participation
	findErr error
	saveErr error
}

func (f *fakeParticipationStore) FindByWebinarID(_ context.Context, webinarID uuid.UUID) ([]models.Participation, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.Participation
	for _, p := range f.saved {
		if p.WebinarID == webinarID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipationStore) Save(_ context.Context, p *models.Participation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *p)
	return nil
}

type fakeNotifier struct {
	sent []Message
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var (
	webinarID   = uuid.MustParse("6f9a2b1c-0d3e-4f5a-8b7c-9d0e1f2a3b4c")
	organizerID = uuid.MustParse("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
	user1ID     = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	user2ID     = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	user3ID     = uuid.MustParse("33333333-3333-4333-8333-333333333333")
)

func newFixture(seats int) (*fakeWebinarStore, *fakeParticipationStore, *fakeNotifier, *Service) {
	webinars := &fakeWebinarStore{webinars: map[uuid.UUID]*models.Webinar{
		webinarID: {
			ID:          webinarID,
			OrganizerID: organizerID,
			Title:       "Webinar title",
			Seats:       seats,
		},
	}}
	participations := &fakeParticipationStore{}
	notifier := &fakeNotifier{}
	svc := NewService(webinars, participations, notifier, nil)
	return webinars, participations, notifier, svc
}

func user1() UserRef {
	return UserRef{ID: user1ID, Email: "user1@example.com"}
}

func TestBookSeat_Success(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.NoError(t, err)

	require.Len(t, participations.saved, 1)
	assert.Equal(t, user1ID, participations.saved[0].UserID)
	assert.Equal(t, webinarID, participations.saved[0].WebinarID)

	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Equal(t, organizerID.String(), msg.To)
	assert.Equal(t, "New participant registered", msg.Subject)
	assert.Contains(t, msg.Body, "user1@example.com")
	assert.Equal(t, "User user1@example.com has registered for the webinar Webinar title.", msg.Body)
}

func TestBookSeat_WebinarNotFound(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)

	err := svc.BookSeat(context.Background(), uuid.New(), user1())
	require.ErrorIs(t, err, ErrWebinarNotFound)

	assert.Empty(t, participations.saved)
	assert.Empty(t, notifier.sent)
}

func TestBookSeat_NotEnoughSeats(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)
	participations.saved = []models.Participation{
		{WebinarID: webinarID, UserID: user2ID},
		{WebinarID: webinarID, UserID: user3ID},
	}

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, ErrNotEnoughSeats)

	assert.Len(t, participations.saved, 2)
	assert.Empty(t, notifier.sent)
}

func TestBookSeat_AlreadyParticipating(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)
	participations.saved = []models.Participation{
		{WebinarID: webinarID, UserID: user1ID},
	}

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, ErrAlreadyParticipating)

	assert.Len(t, participations.saved, 1)
	assert.Empty(t, notifier.sent)
}

// A webinar that is both full and already contains the requesting user
// reports the capacity failure, not the duplicate one.
func TestBookSeat_FullWebinarWinsOverDuplicate(t *testing.T) {
	_, participations, _, svc := newFixture(2)
	participations.saved = []models.Participation{
		{WebinarID: webinarID, UserID: user1ID},
		{WebinarID: webinarID, UserID: user2ID},
	}

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, ErrNotEnoughSeats)
	assert.NotErrorIs(t, err, ErrAlreadyParticipating)
}

func TestBookSeat_CapacityExhaustedAfterDistinctBookings(t *testing.T) {
	_, participations, notifier, svc := newFixture(3)

	for i := 0; i < 3; i++ {
		u := UserRef{ID: uuid.New(), Email: "attendee@example.com"}
		require.NoError(t, svc.BookSeat(context.Background(), webinarID, u))
	}
	require.Len(t, participations.saved, 3)
	require.Len(t, notifier.sent, 3)

	err := svc.BookSeat(context.Background(), webinarID, UserRef{ID: uuid.New(), Email: "late@example.com"})
	require.ErrorIs(t, err, ErrNotEnoughSeats)
	assert.Len(t, participations.saved, 3)
	assert.Len(t, notifier.sent, 3)
}

// Booking twice with identical arguments is not idempotent: the second
// call fails instead of silently succeeding.
func TestBookSeat_SecondIdenticalCallFails(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)

	require.NoError(t, svc.BookSeat(context.Background(), webinarID, user1()))
	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, ErrAlreadyParticipating)

	assert.Len(t, participations.saved, 1)
	assert.Len(t, notifier.sent, 1)
}

func TestBookSeat_WebinarStoreFailurePropagates(t *testing.T) {
	webinars, participations, notifier, svc := newFixture(2)
	storeErr := errors.New("connection refused")
	webinars.err = storeErr

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, storeErr)
	assert.Empty(t, participations.saved)
	assert.Empty(t, notifier.sent)
}

func TestBookSeat_ParticipationReadFailurePropagates(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)
	storeErr := errors.New("connection refused")
	participations.findErr = storeErr

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, storeErr)
	assert.Empty(t, participations.saved)
	assert.Empty(t, notifier.sent)
}

func TestBookSeat_SaveFailurePropagatesAndSkipsNotification(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)
	saveErr := errors.New("insert failed")
	participations.saveErr = saveErr

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, saveErr)
	assert.Empty(t, notifier.sent)
}

// Notification failure after the participation was persisted surfaces
// the notifier's error but does not roll back the booking.
func TestBookSeat_NotificationFailureKeepsBooking(t *testing.T) {
	_, participations, notifier, svc := newFixture(2)
	sendErr := errors.New("smtp unreachable")
	notifier.err = sendErr

	err := svc.BookSeat(context.Background(), webinarID, user1())
	require.ErrorIs(t, err, sendErr)
	require.Len(t, participations.saved, 1)
	assert.Equal(t, user1ID, participations.saved[0].UserID)
}
