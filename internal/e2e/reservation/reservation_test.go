//go:build e2e

package reservation_test

import (
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"

	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/e2e"
	"turf-reservation/internal/handler/dto/response"
	"turf-reservation/internal/testutil/authtest"
	"turf-reservation/internal/testutil/builder"
	"turf-reservation/internal/testutil/dbtest"
	"turf-reservation/internal/testutil/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/reservations"
	// 2030-01-07 is a Monday; the default court only opens on Mondays.
	bookingDate = "2030-01-07"
	closedDate  = "2030-01-08"
)

type reservationSuite struct {
	e2e.SharedSuite
	courtID       uuid.UUID
	customerToken string
	otherToken    string
	adminToken    string
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(reservationSuite))
}

func (s *reservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	s.courtID = dbtest.CreateTestResource(s.T(), s.DB, builder.NewResourceBuilder())
	s.customerToken = authtest.CreateAndLogin(s.T(), s.DB, s.Router, "player@example.com", string(user.RoleCustomer))
	s.otherToken = authtest.CreateAndLogin(s.T(), s.DB, s.Router, "other@example.com", string(user.RoleCustomer))
	s.adminToken = authtest.CreateAndLogin(s.T(), s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
}

func (s *reservationSuite) book(token, key, date, start, end string, addOns ...string) *nethttptest.ResponseRecorder {
	body := map[string]any{
		"resource_id": s.courtID.String(),
		"date":        date,
		"start_time":  start,
		"end_time":    end,
		"add_ons":     addOns,
	}
	return httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, reservationsURL, body, token,
		map[string]string{"Idempotency-Key": key})
}

func (s *reservationSuite) TestCreate() {
	s.Run("books a window and prices it with add-ons", func() {
		w := s.book(s.customerToken, uuid.NewString(), bookingDate, "10:00", "12:00", "Floodlights")

		var resp response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(bookingDate, resp.Date)
		s.Equal("10:00", resp.StartTime)
		s.Equal("12:00", resp.EndTime)
		s.Equal(int32(2), resp.DurationHours)
		s.Equal("2200.00", resp.Price)
		s.Equal([]string{"Floodlights"}, resp.AddOns)
		s.Equal("pending", resp.Status)
		s.Equal("pending", resp.PaymentStatus)
	})

	s.Run("same idempotency key replays the original reservation", func() {
		key := uuid.NewString()
		first := s.book(s.customerToken, key, bookingDate, "10:00", "12:00")
		var created response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), first, http.StatusCreated, &created)

		second := s.book(s.customerToken, key, bookingDate, "10:00", "12:00")
		var replayed response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), second, http.StatusOK, &replayed)
		s.Equal(created.ID, replayed.ID)

		var count int
		require.NoError(s.T(), s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM reservations").Scan(&count))
		s.Equal(1, count)
	})

	s.Run("same key with a different body is rejected", func() {
		key := uuid.NewString()
		httptest.AssertSuccessResponse(s.T(), s.book(s.customerToken, key, bookingDate, "10:00", "12:00"), http.StatusCreated, nil)

		w := s.book(s.customerToken, key, bookingDate, "14:00", "16:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "Idempotency key")
	})

	s.Run("overlapping window is a conflict, adjacent window is not", func() {
		httptest.AssertSuccessResponse(s.T(), s.book(s.customerToken, uuid.NewString(), bookingDate, "10:00", "12:00"), http.StatusCreated, nil)

		w := s.book(s.otherToken, uuid.NewString(), bookingDate, "11:00", "13:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "overlaps")

		w = s.book(s.otherToken, uuid.NewString(), bookingDate, "12:00", "14:00")
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, nil)
	})

	s.Run("concurrent bookings of one window admit exactly one", func() {
		const attempts = 8
		codes := make([]int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := s.book(s.customerToken, uuid.NewString(), bookingDate, "16:00", "18:00")
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created, conflicted := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		s.Equal(1, created)
		s.Equal(attempts-1, conflicted)
	})

	s.Run("closed day and outside hours are unavailable", func() {
		w := s.book(s.customerToken, uuid.NewString(), closedDate, "10:00", "12:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")

		w = s.book(s.customerToken, uuid.NewString(), bookingDate, "21:00", "23:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
	})

	s.Run("unknown add-on and inverted window are invalid", func() {
		w := s.book(s.customerToken, uuid.NewString(), bookingDate, "10:00", "12:00", "Sauna")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")

		w = s.book(s.customerToken, uuid.NewString(), bookingDate, "12:00", "10:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})

	s.Run("anonymous requests are rejected", func() {
		w := s.book("", uuid.NewString(), bookingDate, "10:00", "12:00")
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *reservationSuite) TestListAndGet() {
	s.Run("owner sees own reservations newest first, others get 404", func() {
		var first, second response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), s.book(s.customerToken, uuid.NewString(), bookingDate, "06:00", "08:00"), http.StatusCreated, &first)
		httptest.AssertSuccessResponse(s.T(), s.book(s.customerToken, uuid.NewString(), bookingDate, "08:00", "10:00"), http.StatusCreated, &second)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"?limit=1", nil, s.customerToken)
		var page response.ReservationPageResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &page)
		s.Require().Len(page.Items, 1)
		s.Equal(second.ID, page.Items[0].ID)
		s.Require().NotEmpty(page.NextCursor)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"?limit=1&after="+page.NextCursor, nil, s.customerToken)
		var next response.ReservationPageResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &next)
		s.Require().Len(next.Items, 1)
		s.Equal(first.ID, next.Items[0].ID)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/"+first.ID.String(), nil, s.otherToken)
		s.Equal(http.StatusNotFound, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL, nil, s.otherToken)
		var empty response.ReservationPageResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &empty)
		s.Empty(empty.Items)
	})
}

func (s *reservationSuite) TestCancelFreesTheWindow() {
	s.Run("cancelled window can be rebooked and shows up in slots again", func() {
		var booked response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), s.book(s.customerToken, uuid.NewString(), bookingDate, "10:00", "12:00"), http.StatusCreated, &booked)

		slotsURL := "/api/resources/" + s.courtID.String() + "/slots?date=" + bookingDate
		var slots response.SlotsResponse
		httptest.AssertSuccessResponse(s.T(), httptest.PerformRequest(s.T(), s.Router, http.MethodGet, slotsURL, nil, ""), http.StatusOK, &slots)
		s.NotContains(slotStarts(slots), "10:00")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL+"/"+booked.ID.String()+"/cancel", nil, s.otherToken)
		s.Equal(http.StatusNotFound, w.Code, "only the owner may cancel")

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL+"/"+booked.ID.String()+"/cancel", nil, s.customerToken)
		var cancelled response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &cancelled)
		s.Equal("cancelled", cancelled.Status)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL+"/"+booked.ID.String()+"/cancel", nil, s.customerToken)
		s.Equal(http.StatusConflict, w.Code)

		httptest.AssertSuccessResponse(s.T(), httptest.PerformRequest(s.T(), s.Router, http.MethodGet, slotsURL, nil, ""), http.StatusOK, &slots)
		s.Contains(slotStarts(slots), "10:00")

		httptest.AssertSuccessResponse(s.T(), s.book(s.otherToken, uuid.NewString(), bookingDate, "10:00", "12:00"), http.StatusCreated, nil)
	})
}

func (s *reservationSuite) TestAdminLifecycle() {
	s.Run("admin confirms, records payment and completes", func() {
		var booked response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), s.book(s.customerToken, uuid.NewString(), bookingDate, "10:00", "12:00"), http.StatusCreated, &booked)
		adminURL := "/api/admin/reservations/" + booked.ID.String()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, adminURL+"/confirm", nil, s.customerToken)
		s.Equal(http.StatusForbidden, w.Code)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, adminURL+"/complete", nil, s.adminToken)
		s.Equal(http.StatusConflict, w.Code, "pending cannot complete")

		var out response.ReservationResponse
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, adminURL+"/confirm", nil, s.adminToken)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &out)
		s.Equal("confirmed", out.Status)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPut, adminURL+"/payment", map[string]any{"status": "success"}, s.adminToken)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &out)
		s.Equal("success", out.PaymentStatus)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, adminURL+"/complete", nil, s.adminToken)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &out)
		s.Equal("completed", out.Status)

		var jobs int
		require.NoError(s.T(), s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM notification_jobs").Scan(&jobs))
		s.GreaterOrEqual(jobs, 3)
	})
}

func slotStarts(resp response.SlotsResponse) []string {
	starts := make([]string, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		starts = append(starts, slot.Start)
	}
	return starts
}
