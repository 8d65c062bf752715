/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Calendar endpoints (holidays, easter, day counting)
- Employee accrual endpoints
- Absence workflow and status code mapping
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/absence-engine/calendar"
	"github.com/warp/absence-engine/generic"
	"github.com/warp/absence-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(store, calendar.New(), logger)
	h.Today = func() generic.Date { return generic.MustParseDate("2024-01-01") }

	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createEmployee(t *testing.T, srv *httptest.Server, id, hire string) {
	t.Helper()
	status := do(t, srv, http.MethodPost, "/api/employees", map[string]string{
		"id": id, "name": "Test User", "hire_date": hire,
	}, nil)
	require.Equal(t, http.StatusCreated, status)
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestListHolidays(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp HolidaysResponse
	status := do(t, srv, http.MethodGet, "/api/holidays?year=2024", nil, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2024, resp.Year)
	assert.Len(t, resp.Holidays, 18)
	assert.Equal(t, "2024-01-01", resp.Holidays[0].Date.String())

	// Jan 6 2024 is a Saturday; Reyes Magos moves to Monday Jan 8
	reyes := resp.Holidays[1]
	assert.Equal(t, "2024-01-08", reyes.Date.String())
	assert.Equal(t, "2024-01-06", reyes.Original.String())
	assert.True(t, reyes.Shifted)

	status = do(t, srv, http.MethodGet, "/api/holidays?year=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNextHolidayAndEaster(t *testing.T) {
	srv, _ := newTestServer(t)

	var next NextHolidayResponse
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/holidays/next?from=2024-12-23", nil, &next))
	assert.Equal(t, "2024-12-25", next.Holiday.Date.String())
	assert.Equal(t, 2, next.DaysUntil)

	var easter EasterResponse
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/easter/2025", nil, &easter))
	assert.Equal(t, "2025-04-20", easter.Easter.String())
}

func TestSeedHolidays(t *testing.T) {
	srv, store := newTestServer(t)

	var resp SeedResponse
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/holidays/2025/seed", nil, &resp))
	assert.Equal(t, 18, resp.Seeded)

	stored, err := store.ListHolidays(context.Background(), 2025)
	require.NoError(t, err)
	assert.Len(t, stored, 18)
}

func TestCountDays(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp CountDaysResponse
	status := do(t, srv, http.MethodPost, "/api/days/count", map[string]string{
		"start": "2023-12-20", "end": "2024-01-05",
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 17, resp.CalendarDays)
	assert.Equal(t, 13, resp.BusinessDays)
	assert.Equal(t, 11, resp.BusinessDaysExcludingHolidays)
	require.Len(t, resp.Holidays, 2)
	assert.Equal(t, "Navidad", resp.Holidays[0].Name)

	var errResp ErrorResponse
	status = do(t, srv, http.MethodPost, "/api/days/count", map[string]string{
		"start": "2024-01-05", "end": "2024-01-01",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errResp.Details, "invalid range")

	status = do(t, srv, http.MethodPost, "/api/days/count", map[string]string{"start": "2024-13-01", "end": "2024-01-01"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeAccrual(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "2023-01-01")

	var emp EmployeeDTO
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/employees/emp-1", nil, &emp))
	assert.Equal(t, "2023-01-01", emp.HireDate.String())
	assert.Nil(t, emp.BirthDate)

	var accrual AccrualDTO
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/employees/emp-1/accrual?year=2023&today=2024-01-01", nil, &accrual))
	assert.Equal(t, 15, accrual.DaysEarned)
	assert.Equal(t, "12.0000", accrual.MonthsWorked)

	var anniversary AnniversaryDTO
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/employees/emp-1/anniversary?today=2024-06-01", nil, &anniversary))
	assert.Equal(t, 1, anniversary.YearsOfService)
	assert.Equal(t, "2025-01-01", anniversary.NextAnniversary.String())

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/employees/ghost", nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/employees/ghost/vacation-summary", nil, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/employees/emp-1/accrual?today=yesterday", nil, nil))
}

func TestCreateEmployee_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/employees", map[string]string{"name": "x", "hire_date": "2024-01-01"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/employees", map[string]string{"id": "x"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/employees", map[string]string{"id": "x", "hire_date": "01/01/2024"}, nil))
}

// =============================================================================
// ABSENCE WORKFLOW
// =============================================================================

func TestAbsenceWorkflow(t *testing.T) {
	// GIVEN: Employee hired 2023-01-01
	// WHEN: A year-end vacation is submitted, approved, and overlapping requests follow
	// THEN: Status codes follow the error mapping and the balance reflects the vacation
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "2023-01-01")

	var vac AbsenceDTO
	status := do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", map[string]string{
		"kind": "vacation", "start": "2023-12-20", "end": "2024-01-05", "today": "2024-01-01",
	}, &vac)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 11, vac.Days)
	assert.Equal(t, "pending", vac.Status)
	assert.NotEmpty(t, vac.ID)

	// touching permit conflicts
	var errResp ErrorResponse
	status = do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", map[string]string{
		"kind": "permit", "start": "2024-01-05", "end": "2024-01-05",
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, errResp.Details, "pending vacation")

	// a second 2023 vacation exceeds the remaining 4 days
	status = do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", map[string]string{
		"kind": "vacation", "start": "2023-11-01", "end": "2023-11-10", "today": "2024-01-01",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", map[string]string{
		"kind": "sabbatical", "start": "2024-03-01", "end": "2024-03-02",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", map[string]string{
		"kind": "permit", "start": "2024-03-02", "end": "2024-03-01",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = do(t, srv, http.MethodPost, "/api/employees/ghost/absences", map[string]string{
		"kind": "permit", "start": "2024-03-01", "end": "2024-03-01",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// workflow
	var approved AbsenceDTO
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/absences/"+vac.ID+"/approve", nil, &approved))
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/api/absences/"+vac.ID+"/reject", nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/absences/missing/approve", nil, nil))

	var summary VacationSummaryDTO
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/employees/emp-1/vacation-summary?year=2023&today=2024-01-01", nil, &summary))
	assert.Equal(t, 15, summary.Earned)
	assert.Equal(t, 11, summary.Taken)
	assert.Equal(t, 4, summary.Available)

	var list []AbsenceDTO
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/employees/emp-1/absences", nil, &list))
	assert.Len(t, list, 1)

	// cancel frees the dates
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/absences/"+vac.ID+"/cancel", nil, nil))
	assert.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", map[string]string{
		"kind": "permit", "start": "2024-01-05", "end": "2024-01-05",
	}, nil))
}

func TestCheckAvailability(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "2023-01-01")

	var permit AbsenceDTO
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/employees/emp-1/absences", map[string]string{
		"kind": "permit", "start": "2024-03-04", "end": "2024-03-06",
	}, &permit))

	var resp AvailabilityResponse
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/availability", map[string]string{
		"employee_id": "emp-1", "start": "2024-03-06", "end": "2024-03-08",
	}, &resp))
	assert.False(t, resp.Available)
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, permit.ID, resp.Conflict.ID)

	resp = AvailabilityResponse{}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/availability", map[string]string{
		"employee_id": "emp-1", "start": "2024-03-06", "end": "2024-03-08", "exclude_permit_id": permit.ID,
	}, &resp))
	assert.True(t, resp.Available)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/availability", map[string]string{
		"employee_id": "emp-1", "start": "2024-03-08", "end": "2024-03-06",
	}, nil))

	var errResp ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/availability", map[string]string{
		"employee_id": "ghost", "start": "2024-03-06", "end": "2024-03-08",
	}, &errResp), "an unknown employee is not available")
	assert.Contains(t, errResp.Details, "ghost")
}

func TestInputBounds(t *testing.T) {
	// GIVEN: A server whose calendar cache starts empty
	// WHEN: Years or ranges outside the supported bounds are requested
	// THEN: They are refused with 400 and never reach the calendar
	store := memory.New()
	cal := calendar.New()
	h := NewHandler(store, cal, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Today = func() generic.Date { return generic.MustParseDate("2024-01-01") }
	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)
	createEmployee(t, srv, "emp-1", "2023-01-01")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"holidays far future", http.MethodGet, "/api/holidays?year=99999", nil},
		{"holidays before 1900", http.MethodGet, "/api/holidays?year=1066", nil},
		{"easter", http.MethodGet, "/api/easter/123456", nil},
		{"seed", http.MethodPost, "/api/holidays/5000/seed", nil},
		{"next holiday", http.MethodGet, "/api/holidays/next?from=3000-01-01", nil},
		{"count ten thousand years", http.MethodPost, "/api/days/count", map[string]string{"start": "0001-01-01", "end": "9999-12-31"}},
		{"count span too long", http.MethodPost, "/api/days/count", map[string]string{"start": "1950-01-01", "end": "2150-01-01"}},
		{"count reference year", http.MethodPost, "/api/days/count", map[string]any{"start": "2024-01-01", "end": "2024-01-31", "reference_year": 7000}},
		{"accrual year", http.MethodGet, "/api/employees/emp-1/accrual?year=8000", nil},
		{"submit span too long", http.MethodPost, "/api/employees/emp-1/absences", map[string]string{"kind": "permit", "start": "2024-01-01", "end": "2099-01-01"}},
		{"availability far future", http.MethodPost, "/api/availability", map[string]string{"employee_id": "emp-1", "start": "4000-01-01", "end": "4000-01-02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(t, srv, tt.method, tt.path, tt.body, nil))
		})
	}

	for _, year := range cal.Cache().Years() {
		assert.True(t, year >= MinYear && year <= MaxYear, "cached out-of-bounds year %d", year)
	}

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/holidays?year=2200", nil, nil), "upper bound is inclusive")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
