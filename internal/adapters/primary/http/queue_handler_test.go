package http

import (
	"encoding/json"
	stdhttp "net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

func newQueueRouter(qs ports.QueueService) chi.Router {
	handler := NewQueueHandler(qs, NewErrorHandler(testLogger()), testLogger())

	r := chi.NewRouter()
	r.Route("/categories/{categoryID}/queue", func(r chi.Router) {
		handler.RegisterPublicRoutes(r)
		handler.RegisterStaffRoutes(r)
	})
	return r
}

func TestHandleListQueue(t *testing.T) {
	t.Run("returns the waiting tickets in order", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		priority := sampleTicket()
		priority.ID = 50
		priority.Number = "P001"
		priority.Type = domain.TypePriority

		qs.On("Queue", mock.Anything, int64(1)).
			Return([]*domain.Ticket{priority, sampleTicket()}, nil)

		recorder := doRequest(router, stdhttp.MethodGet, "/categories/1/queue", "")

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response ListResponse[TicketDTO]
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "P001", response.Data[0].Number)
		assert.Equal(t, "N007", response.Data[1].Number)
	})

	t.Run("maps an unknown category to 404", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		qs.On("Queue", mock.Anything, int64(77)).Return(nil, apperrors.ErrCategoryNotFound)

		recorder := doRequest(router, stdhttp.MethodGet, "/categories/77/queue", "")

		require.Equal(t, stdhttp.StatusNotFound, recorder.Code)
	})
}

func TestHandlePeekNext(t *testing.T) {
	t.Run("returns the head of the queue", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		qs.On("PeekNext", mock.Anything, int64(1)).Return(sampleTicket(), nil)

		recorder := doRequest(router, stdhttp.MethodGet, "/categories/1/queue/next", "")

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response NextTicketResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		require.NotNil(t, response.Ticket)
		assert.False(t, response.Empty)
		assert.Equal(t, "N007", response.Ticket.Number)
	})

	t.Run("reports an empty queue as a normal outcome", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		qs.On("PeekNext", mock.Anything, int64(1)).Return(nil, apperrors.ErrQueueEmpty)

		recorder := doRequest(router, stdhttp.MethodGet, "/categories/1/queue/next", "")

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response NextTicketResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Nil(t, response.Ticket)
		assert.True(t, response.Empty)
	})
}

func TestHandleCallNext(t *testing.T) {
	t.Run("claims the next ticket for a counter", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		called := sampleTicket()
		called.Status = domain.StatusCalled
		qs.On("CallNext", mock.Anything, int64(1), 3).Return(called, nil)

		recorder := doStaffRequest(router, stdhttp.MethodPost, "/categories/1/queue/call", `{"counterNumber":3}`, staffClaims())

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response NextTicketResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		require.NotNil(t, response.Ticket)
		assert.Equal(t, "called", response.Ticket.Status)
		qs.AssertExpectations(t)
	})

	t.Run("returns empty instead of an error when nobody waits", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		qs.On("CallNext", mock.Anything, int64(1), 3).Return(nil, apperrors.ErrQueueEmpty)

		recorder := doStaffRequest(router, stdhttp.MethodPost, "/categories/1/queue/call", `{"counterNumber":3}`, staffClaims())

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response NextTicketResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.True(t, response.Empty)
	})

	t.Run("rejects a counter number below one", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		recorder := doStaffRequest(router, stdhttp.MethodPost, "/categories/1/queue/call", `{"counterNumber":0}`, staffClaims())

		require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)
		qs.AssertNotCalled(t, "CallNext")
	})

	t.Run("rejects unauthenticated calls", func(t *testing.T) {
		qs := new(mockQueueService)
		router := newQueueRouter(qs)

		recorder := doRequest(router, stdhttp.MethodPost, "/categories/1/queue/call", `{"counterNumber":3}`)

		require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
		qs.AssertNotCalled(t, "CallNext")
	})
}

func TestHandleQueueStats(t *testing.T) {
	qs := new(mockQueueService)
	router := newQueueRouter(qs)

	qs.On("QueueStats", mock.Anything, int64(1)).Return(&domain.QueueStats{
		CategoryID:           1,
		WaitingTotal:         4,
		WaitingNormal:        3,
		WaitingPriority:      1,
		InService:            2,
		EstimatedWaitMinutes: 40,
	}, nil)

	recorder := doRequest(router, stdhttp.MethodGet, "/categories/1/queue/stats", "")

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var stats domain.QueueStats
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&stats))
	assert.Equal(t, 4, stats.WaitingTotal)
	assert.Equal(t, 40, stats.EstimatedWaitMinutes)
}
