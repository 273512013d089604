package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

// stubWorkingTimeService records the last call and returns canned results.
type stubWorkingTimeService struct {
	actor  string
	filter workingtime.ListWorkingTimeFilter
	create workingtime.CreateWorkingTimeRequest
	update workingtime.UpdateWorkingTimeRequest
	id     string

	record  workingtime.WorkingTimeResponse
	records []workingtime.WorkingTimeResponse
	current *workingtime.WorkingTimeResponse
	err     error
}

func (s *stubWorkingTimeService) List(ctx context.Context, actorID string, filter workingtime.ListWorkingTimeFilter) ([]workingtime.WorkingTimeResponse, error) {
	s.actor, s.filter = actorID, filter
	return s.records, s.err
}

func (s *stubWorkingTimeService) Create(ctx context.Context, actorID string, req workingtime.CreateWorkingTimeRequest) (workingtime.WorkingTimeResponse, error) {
	s.actor, s.create = actorID, req
	return s.record, s.err
}

func (s *stubWorkingTimeService) GetByID(ctx context.Context, actorID string, id string) (workingtime.WorkingTimeResponse, error) {
	s.actor, s.id = actorID, id
	return s.record, s.err
}

func (s *stubWorkingTimeService) Update(ctx context.Context, actorID string, req workingtime.UpdateWorkingTimeRequest) (workingtime.WorkingTimeResponse, error) {
	s.actor, s.update = actorID, req
	return s.record, s.err
}

func (s *stubWorkingTimeService) Delete(ctx context.Context, actorID string, id string) error {
	s.actor, s.id = actorID, id
	return s.err
}

func (s *stubWorkingTimeService) GetCurrent(ctx context.Context, actorID string) (*workingtime.WorkingTimeResponse, error) {
	s.actor = actorID
	return s.current, s.err
}

func (s *stubWorkingTimeService) Checkin(ctx context.Context, actorID string, req workingtime.CheckinRequest) (workingtime.WorkingTimeResponse, error) {
	s.actor = actorID
	return s.record, s.err
}

func (s *stubWorkingTimeService) Checkout(ctx context.Context, actorID string) (workingtime.WorkingTimeResponse, error) {
	s.actor = actorID
	return s.record, s.err
}

type handlerFixture struct {
	service *stubWorkingTimeService
	jwt     jwt.Service
	server  http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	svc := &stubWorkingTimeService{}
	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return &handlerFixture{
		service: svc,
		jwt:     jwtSvc,
		server:  NewRouter(logger, jwtSvc, []string{"http://localhost:3000"}, NewWorkingTimeHandler(svc)),
	}
}

func (f *handlerFixture) do(t *testing.T, method, target string, body interface{}, employeeID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if employeeID != "" {
		token, _, err := f.jwt.GenerateAccessToken(employeeID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	f.server.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func sampleRecord() workingtime.WorkingTimeResponse {
	end := "17:00:00"
	return workingtime.WorkingTimeResponse{
		ID:         "0190a5e4-7c1d-7000-8000-000000000001",
		EmployeeID: "7",
		CompanyID:  "3",
		Date:       "2024-05-01",
		Start:      "09:00:00",
		End:        &end,
		Type:       "work",
	}
}

// ===== AUTHENTICATION =====

func TestWorkingTimeHandler_RequiresToken(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodGet, "/api/v1/workingtime", nil, "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, f.service.actor)
}

func TestWorkingTimeHandler_RejectsNonAccessToken(t *testing.T) {
	f := newHandlerFixture(t)
	_, token, err := f.jwt.JWTAuth().Encode(map[string]interface{}{
		jwt.ClaimEmployeeID: "7",
		jwt.ClaimType:       "refresh",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workingtime", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	f.server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWorkingTimeHandler_RejectsTokenWithoutEmployee(t *testing.T) {
	f := newHandlerFixture(t)
	_, token, err := f.jwt.JWTAuth().Encode(map[string]interface{}{
		jwt.ClaimType: jwt.TokenTypeAccess,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workingtime/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	f.server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_Heartbeat(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodGet, "/", nil, "")

	assert.Equal(t, http.StatusOK, rr.Code)
}

// ===== ROUTES =====

func TestWorkingTimeHandler_List(t *testing.T) {
	f := newHandlerFixture(t)
	f.service.records = []workingtime.WorkingTimeResponse{sampleRecord()}

	rr := f.do(t, http.MethodGet, "/api/v1/workingtime?employee_id=8&from=2024-05-01&to=2024-05-31", nil, "7")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "7", f.service.actor)
	require.NotNil(t, f.service.filter.EmployeeID)
	assert.Equal(t, "8", *f.service.filter.EmployeeID)
	assert.Equal(t, "2024-05-01", *f.service.filter.From)
	assert.Equal(t, "2024-05-31", *f.service.filter.To)

	var body struct {
		Success bool                              `json:"success"`
		Data    []workingtime.WorkingTimeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, f.service.records, body.Data)
}

func TestWorkingTimeHandler_List_NoFilter(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodGet, "/api/v1/workingtime", nil, "7")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, f.service.filter.EmployeeID)
	assert.Nil(t, f.service.filter.From)
	assert.Nil(t, f.service.filter.To)
}

func TestWorkingTimeHandler_Create(t *testing.T) {
	f := newHandlerFixture(t)
	f.service.record = sampleRecord()

	rr := f.do(t, http.MethodPost, "/api/v1/workingtime", map[string]interface{}{
		"employee_id": "8",
		"date":        "2024-05-01",
		"start":       "09:00",
		"end":         "17:00",
		"type":        "work",
	}, "7")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "7", f.service.actor)
	require.NotNil(t, f.service.create.EmployeeID)
	assert.Equal(t, "8", *f.service.create.EmployeeID)
	assert.Equal(t, "09:00", f.service.create.Start)

	resp := decodeEnvelope(t, rr)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "0190a5e4-7c1d-7000-8000-000000000001", data["id"])
	assert.Equal(t, "17:00:00", data["end"])
}

func TestWorkingTimeHandler_Create_InvalidBody(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodPost, "/api/v1/workingtime", "{not json", "7")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "BAD_REQUEST", decodeEnvelope(t, rr).Error.Code)
	assert.Empty(t, f.service.actor)
}

func TestWorkingTimeHandler_Create_ValidationFailure(t *testing.T) {
	f := newHandlerFixture(t)
	bad := workingtime.CreateWorkingTimeRequest{Date: "01.05.2024", Start: "9 Uhr"}
	_, f.service.err = bad.Entry()
	require.Error(t, f.service.err)

	rr := f.do(t, http.MethodPost, "/api/v1/workingtime", map[string]interface{}{
		"date":  bad.Date,
		"start": bad.Start,
	}, "7")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "date")
	assert.Contains(t, resp.Error.Details, "start")
	assert.Contains(t, resp.Error.Details, "type")

	// the payload reaches the service untouched; it validates after the access check
	assert.Equal(t, "7", f.service.actor)
	assert.Equal(t, bad.Date, f.service.create.Date)
}

func TestWorkingTimeHandler_Update_ForwardsUnvalidatedBody(t *testing.T) {
	f := newHandlerFixture(t)
	f.service.err = &workingtime.AccessDeniedError{Action: workingtime.ActionUpdate}

	rr := f.do(t, http.MethodPut, "/api/v1/workingtime/"+sampleRecord().ID, map[string]interface{}{
		"date": "not-a-date",
	}, "8")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, rr).Error.Code)
	assert.Equal(t, "8", f.service.actor)
	assert.Equal(t, "not-a-date", f.service.update.Date)
}

func TestWorkingTimeHandler_Get(t *testing.T) {
	f := newHandlerFixture(t)
	f.service.record = sampleRecord()

	rr := f.do(t, http.MethodGet, "/api/v1/workingtime/"+sampleRecord().ID, nil, "7")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, sampleRecord().ID, f.service.id)
}

func TestWorkingTimeHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"record not found", workingtime.ErrWorkingTimeNotFound, http.StatusBadRequest, "NOT_FOUND", "Working time not found"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusBadRequest, "NOT_FOUND", "Employee not found"},
		{"access denied", &workingtime.AccessDeniedError{Action: workingtime.ActionRead}, http.StatusBadRequest, "UNAUTHORIZED", "Sie sind nicht berechtigt, diese Arbeitszeit anzuzeigen."},
		{"end before start", workingtime.ErrEndBeforeStart, http.StatusBadRequest, "VALIDATION_ERROR", "end time must be after start time"},
		{"already checked in", workingtime.ErrAlreadyCheckedIn, http.StatusBadRequest, "CONFLICT", "Already checked in"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			f.service.err = c.err

			rr := f.do(t, http.MethodGet, "/api/v1/workingtime/"+sampleRecord().ID, nil, "7")

			assert.Equal(t, c.status, rr.Code)
			resp := decodeEnvelope(t, rr)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, c.code, resp.Error.Code)
			assert.Equal(t, c.message, resp.Error.Message)
		})
	}
}

func TestWorkingTimeHandler_Update(t *testing.T) {
	f := newHandlerFixture(t)
	f.service.record = sampleRecord()

	rr := f.do(t, http.MethodPut, "/api/v1/workingtime/"+sampleRecord().ID, map[string]interface{}{
		"date":  "2024-05-01",
		"start": "09:00",
		"end":   "17:00",
		"type":  "work",
	}, "7")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, sampleRecord().ID, f.service.update.ID)
	assert.Equal(t, "2024-05-01", f.service.update.Date)
}

func TestWorkingTimeHandler_Delete(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodDelete, "/api/v1/workingtime/"+sampleRecord().ID, nil, "7")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Equal(t, sampleRecord().ID, f.service.id)
}

func TestWorkingTimeHandler_Current(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodGet, "/api/v1/workingtime/current", nil, "7")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Empty(t, f.service.id, "current must not be routed as a record id")

	record := sampleRecord()
	f.service.current = &record

	rr = f.do(t, http.MethodGet, "/api/v1/workingtime/current", nil, "7")
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeEnvelope(t, rr).Data.(map[string]interface{})
	assert.Equal(t, record.ID, data["id"])
}

func TestWorkingTimeHandler_CheckinCheckout(t *testing.T) {
	f := newHandlerFixture(t)
	f.service.record = sampleRecord()

	rr := f.do(t, http.MethodPost, "/api/v1/workingtime/actions/checkin", map[string]string{"type": "work"}, "7")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "7", f.service.actor)

	rr = f.do(t, http.MethodPost, "/api/v1/workingtime/actions/checkout", nil, "8")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "8", f.service.actor)

	f.service.err = workingtime.ErrNotCheckedIn
	rr = f.do(t, http.MethodPost, "/api/v1/workingtime/actions/checkout", nil, "8")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "CONFLICT", decodeEnvelope(t, rr).Error.Code)
}
