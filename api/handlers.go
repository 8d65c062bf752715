/*
handlers.go - HTTP API handlers for the absence engine

PURPOSE:
  Exposes the holiday calendar, day counter, accrual calculator and absence
  workflow via REST API. Handles HTTP request/response, JSON serialization,
  and delegates to domain logic.

ENDPOINTS:
  Calendar:
    GET    /api/holidays?year=Y             Holidays of a year
    GET    /api/holidays/next?from=D        Next holiday on or after D
    POST   /api/holidays/{year}/seed        Persist computed holidays
    GET    /api/easter/{year}               Easter Sunday
    POST   /api/days/count                  Calendar/business day counts

  Employees:
    POST   /api/employees                   Create or update employee
    GET    /api/employees/{id}              Get employee
    GET    /api/employees/{id}/accrual      Vacation days earned in a year
    GET    /api/employees/{id}/vacation-summary  Earned, taken, available
    GET    /api/employees/{id}/anniversary  Years of service, next dates

  Absences:
    POST   /api/employees/{id}/absences     Submit (or edit) an absence
    GET    /api/employees/{id}/absences     List absences
    POST   /api/absences/{id}/approve       pending -> approved
    POST   /api/absences/{id}/reject        pending -> rejected
    POST   /api/absences/{id}/cancel        pending|approved -> canceled
    POST   /api/absences/{id}/taken         approved -> taken
    POST   /api/availability                Overlap check, no side effects

TODAY:
  Endpoints that depend on "today" accept ?today=YYYY-MM-DD and fall back
  to Handler.Today.

INPUT BOUNDS:
  Years must fall in MinYear..MaxYear and ranges may span at most
  MaxRangeDays. The calendar memoizes every year it computes, so unbounded
  client input would grow its cache without limit.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, inverted ranges
  - 404: Employee or absence not found
  - 409: Overlapping absence, refused status change
  - 422: Insufficient vacation balance
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/warp/absence-engine/calendar"
	"github.com/warp/absence-engine/generic"
	"github.com/warp/absence-engine/timeoff"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is everything the handlers persist or read. Both store/sqlite and
// store/memory satisfy it.
type Store interface {
	timeoff.Repository
	timeoff.EmployeeDirectory
	SaveEmployee(ctx context.Context, rec timeoff.ServiceRecord) error
	SaveHolidays(ctx context.Context, set generic.HolidaySet) error
	ListHolidays(ctx context.Context, year int) ([]generic.Holiday, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    Store
	Calendar *calendar.Calendar
	Counter  *generic.DayCounter
	Requests *timeoff.RequestService
	Accrual  *timeoff.AccrualCalculator
	Logger   *slog.Logger

	// Today is the default reference date; tests pin it.
	Today func() generic.Date
}

// NewHandler creates a new handler over store and cal.
func NewHandler(store Store, cal *calendar.Calendar, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	counter := generic.NewDayCounter(cal)
	return &Handler{
		Store:    store,
		Calendar: cal,
		Counter:  counter,
		Requests: timeoff.NewRequestService(store, store, counter),
		Accrual:  timeoff.NewAccrualCalculator(),
		Logger:   logger,
		Today:    func() generic.Date { return generic.DateOf(time.Now()) },
	}
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// ListHolidays returns the computed holidays of ?year (default: this year).
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := h.queryYear(r, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	set := h.Calendar.HolidaysForYear(year)
	writeJSON(w, http.StatusOK, HolidaysResponse{Year: year, Holidays: toHolidayDTOs(set.Holidays())})
}

func (h *Handler) NextHoliday(w http.ResponseWriter, r *http.Request) {
	from, err := h.queryDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err)
		return
	}
	holiday, days := h.Calendar.NextHoliday(from)
	writeJSON(w, http.StatusOK, NextHolidayResponse{From: from, Holiday: toHolidayDTO(holiday), DaysUntil: days})
}

// SeedHolidays persists the computed holidays of {year} into the store so
// reporting tools can read them without the rule engine.
func (h *Handler) SeedHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	set := h.Calendar.HolidaysForYear(year)
	if err := h.Store.SaveHolidays(r.Context(), set); err != nil {
		h.internalError(w, r, "failed to seed holidays", err)
		return
	}
	h.Logger.Info("holidays seeded", "year", year, "count", len(set.Holidays()),
		"request_id", middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusCreated, SeedResponse{Year: year, Seeded: len(set.Holidays())})
}

func (h *Handler) GetEaster(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	writeJSON(w, http.StatusOK, EasterResponse{Year: year, Easter: calendar.Easter(year)})
}

// CountDays returns every count over the requested range. An inverted range
// is rejected here even though the counter itself would answer 0.
func (h *Handler) CountDays(w http.ResponseWriter, r *http.Request) {
	var req CountDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		writeError(w, http.StatusBadRequest, "start and end are required", nil)
		return
	}
	p, err := generic.NewPeriod(req.Start, req.End)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := checkRange(p.Start, p.End); err != nil {
		writeError(w, http.StatusBadRequest, "range out of bounds", err)
		return
	}

	excl := h.Counter.BusinessDaysExcludingHolidays(p)
	if req.ReferenceYear != 0 {
		if err := checkYear(req.ReferenceYear); err != nil {
			writeError(w, http.StatusBadRequest, "invalid reference_year", err)
			return
		}
		excl = h.Counter.BusinessDaysExcludingHolidaysIn(p, req.ReferenceYear)
	}

	writeJSON(w, http.StatusOK, CountDaysResponse{
		Start:                         p.Start,
		End:                           p.End,
		CalendarDays:                  h.Counter.CalendarDays(p),
		BusinessDays:                  h.Counter.BusinessDays(p),
		BusinessDaysExcludingHolidays: excl,
		Holidays:                      toHolidayDTOs(h.Counter.HolidaysIn(p)),
	})
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}
	if req.HireDate.IsZero() {
		writeError(w, http.StatusBadRequest, "hire_date is required", nil)
		return
	}

	rec := timeoff.ServiceRecord{
		EmployeeID: req.ID,
		Name:       strings.TrimSpace(req.Name),
		HireDate:   req.HireDate,
		BirthDate:  req.BirthDate,
	}
	if err := h.Store.SaveEmployee(r.Context(), rec); err != nil {
		h.internalError(w, r, "failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(rec))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(rec))
}

// GetAccrual returns months worked and days earned for ?year as of ?today.
func (h *Handler) GetAccrual(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	today, year, ok := h.todayAndYear(w, r)
	if !ok {
		return
	}

	months := h.Accrual.MonthsWorkedInYear(rec.HireDate, year, today)
	writeJSON(w, http.StatusOK, AccrualDTO{
		EmployeeID:   rec.EmployeeID,
		Year:         year,
		AsOf:         today,
		MonthsWorked: months.StringFixed(4),
		DaysEarned:   h.Accrual.DaysForMonths(months),
	})
}

func (h *Handler) GetVacationSummary(w http.ResponseWriter, r *http.Request) {
	today, year, ok := h.todayAndYear(w, r)
	if !ok {
		return
	}
	summary, err := h.Requests.VacationSummary(r.Context(), chi.URLParam(r, "id"), year, today)
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationSummaryDTO(summary))
}

func (h *Handler) GetAnniversary(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	today, err := h.queryDate(r, "today")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid today", err)
		return
	}

	dto := AnniversaryDTO{
		EmployeeID:      rec.EmployeeID,
		AsOf:            today,
		YearsOfService:  timeoff.YearsOfService(rec.HireDate, today),
		NextAnniversary: timeoff.NextAnniversary(rec.HireDate, today),
	}
	if !rec.BirthDate.IsZero() {
		next := timeoff.NextBirthday(rec.BirthDate, today)
		dto.NextBirthday = &next
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ABSENCE ENDPOINTS
// =============================================================================

// SubmitAbsence validates and stores a pending permit or vacation.
func (h *Handler) SubmitAbsence(w http.ResponseWriter, r *http.Request) {
	var req SubmitAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		writeError(w, http.StatusBadRequest, "start and end are required", nil)
		return
	}
	kind, err := timeoff.ParseKind(req.Kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := checkRange(req.Start, req.End); err != nil {
		writeError(w, http.StatusBadRequest, "range out of bounds", err)
		return
	}

	today := req.Today
	if today.IsZero() {
		today = h.Today()
	} else if err := checkYear(today.Year()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid today", err)
		return
	}

	rec, err := h.Requests.Submit(r.Context(), timeoff.SubmitInput{
		ID:         req.ID,
		EmployeeID: chi.URLParam(r, "id"),
		Kind:       kind,
		Start:      req.Start,
		End:        req.End,
		Reason:     req.Reason,
		Today:      today,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.Logger.Info("absence submitted", "absence_id", rec.ID, "employee_id", rec.EmployeeID,
		"kind", rec.Kind, "days", rec.Days, "request_id", middleware.GetReqID(r.Context()))

	status := http.StatusCreated
	if req.ID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, toAbsenceDTO(rec))
}

func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if _, ok := h.loadEmployee(w, r); !ok {
		return
	}
	recs, err := h.Store.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		h.internalError(w, r, "failed to list absences", err)
		return
	}
	writeJSON(w, http.StatusOK, toAbsenceDTOs(recs))
}

func (h *Handler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Requests.Approve)
}

func (h *Handler) RejectAbsence(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Requests.Reject)
}

func (h *Handler) CancelAbsence(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Requests.Cancel)
}

func (h *Handler) MarkAbsenceTaken(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Requests.MarkTaken)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) (timeoff.AbsenceRecord, error)) {
	rec, err := apply(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	h.Logger.Info("absence status changed", "absence_id", rec.ID, "status", rec.Status,
		"request_id", middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusOK, toAbsenceDTO(rec))
}

// CheckAvailability answers whether a range is free, without storing
// anything. A conflict is a normal answer here, not an error.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.EmployeeID == "" || req.Start.IsZero() || req.End.IsZero() {
		writeError(w, http.StatusBadRequest, "employee_id, start and end are required", nil)
		return
	}

	if err := checkRange(req.Start, req.End); err != nil {
		writeError(w, http.StatusBadRequest, "range out of bounds", err)
		return
	}

	candidate := generic.Period{Start: req.Start, End: req.End}
	err := h.Requests.CheckAvailability(r.Context(), req.EmployeeID, candidate, timeoff.Exclusions{
		PermitID:   req.ExcludePermitID,
		VacationID: req.ExcludeVacationID,
	})

	var conflict *timeoff.ConflictError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, AvailabilityResponse{Available: true})
	case errors.As(err, &conflict):
		dto := toAbsenceDTO(conflict.Existing)
		writeJSON(w, http.StatusOK, AvailabilityResponse{Available: false, Conflict: &dto})
	default:
		h.domainError(w, r, err)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request) (timeoff.ServiceRecord, bool) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.ServiceRecord(r.Context(), id)
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "employee not found", fmt.Errorf("employee %s: %w", id, err))
			return timeoff.ServiceRecord{}, false
		}
		h.internalError(w, r, "failed to load employee", err)
		return timeoff.ServiceRecord{}, false
	}
	return rec, true
}

// todayAndYear reads ?today and ?year; year defaults to today's year.
func (h *Handler) todayAndYear(w http.ResponseWriter, r *http.Request) (generic.Date, int, bool) {
	today, err := h.queryDate(r, "today")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid today", err)
		return generic.Date{}, 0, false
	}
	year := today.Year()
	if s := r.URL.Query().Get("year"); s != "" {
		if year, err = parseYear(s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid year", err)
			return generic.Date{}, 0, false
		}
	}
	return today, year, true
}

func (h *Handler) queryDate(r *http.Request, key string) (generic.Date, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return h.Today(), nil
	}
	d, err := generic.ParseDate(s)
	if err != nil {
		return generic.Date{}, err
	}
	return d, checkYear(d.Year())
}

func (h *Handler) queryYear(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return h.Today().Year(), nil
	}
	return parseYear(s)
}

// =============================================================================
// INPUT BOUNDS
// =============================================================================

const (
	MinYear      = 1900
	MaxYear      = 2200
	MaxRangeDays = 3660
)

func pathYear(r *http.Request) (int, error) {
	return parseYear(chi.URLParam(r, "year"))
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return year, checkYear(year)
}

func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d outside %d..%d", year, MinYear, MaxYear)
	}
	return nil
}

// checkRange bounds both ends and the span. Ordering is left to NewPeriod.
func checkRange(start, end generic.Date) error {
	if err := checkYear(start.Year()); err != nil {
		return err
	}
	if err := checkYear(end.Year()); err != nil {
		return err
	}
	if span := start.DaysUntil(end) + 1; span > MaxRangeDays {
		return fmt.Errorf("range of %d days exceeds %d", span, MaxRangeDays)
	}
	return nil
}

// domainError maps engine errors to status codes, logging only the ones
// that are not the client's fault.
func (h *Handler) domainError(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		h.internalError(w, r, "internal error", err)
		return
	}
	writeDomainError(w, err)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.Logger.Error(message, "err", err, "method", r.Method, "path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()))
	writeError(w, http.StatusInternalServerError, message, err)
}

func statusFor(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, timeoff.ErrAbsenceConflict), errors.Is(err, timeoff.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, timeoff.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case timeoff.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeError(w, status, strings.ToLower(http.StatusText(status)), err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
