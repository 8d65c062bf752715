/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES:
  Every date is a "YYYY-MM-DD" string. generic.Date implements
  encoding.TextMarshaler, so it can appear in DTOs directly.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/absence-engine/generic"
	"github.com/warp/absence-engine/timeoff"
)

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	Date     generic.Date `json:"date"`
	Original generic.Date `json:"original"`
	Name     string       `json:"name"`
	Rule     string       `json:"rule"`
	Shifted  bool         `json:"shifted"`
}

type HolidaysResponse struct {
	Year     int          `json:"year"`
	Holidays []HolidayDTO `json:"holidays"`
}

type NextHolidayResponse struct {
	From      generic.Date `json:"from"`
	Holiday   HolidayDTO   `json:"holiday"`
	DaysUntil int          `json:"days_until"`
}

type EasterResponse struct {
	Year   int          `json:"year"`
	Easter generic.Date `json:"easter"`
}

type SeedResponse struct {
	Year   int `json:"year"`
	Seeded int `json:"seeded"`
}

// =============================================================================
// DAY COUNTING
// =============================================================================

// CountDaysRequest asks for every count over [start, end]. ReferenceYear,
// when set, adds that year's holidays to the holiday-aware count.
type CountDaysRequest struct {
	Start         generic.Date `json:"start"`
	End           generic.Date `json:"end"`
	ReferenceYear int          `json:"reference_year,omitempty"`
}

type CountDaysResponse struct {
	Start                         generic.Date `json:"start"`
	End                           generic.Date `json:"end"`
	CalendarDays                  int          `json:"calendar_days"`
	BusinessDays                  int          `json:"business_days"`
	BusinessDaysExcludingHolidays int          `json:"business_days_excluding_holidays"`
	Holidays                      []HolidayDTO `json:"holidays"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type CreateEmployeeRequest struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	HireDate  generic.Date `json:"hire_date"`
	BirthDate generic.Date `json:"birth_date"`
}

type EmployeeDTO struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	HireDate  generic.Date  `json:"hire_date"`
	BirthDate *generic.Date `json:"birth_date,omitempty"`
}

type AccrualDTO struct {
	EmployeeID   string       `json:"employee_id"`
	Year         int          `json:"year"`
	AsOf         generic.Date `json:"as_of"`
	MonthsWorked string       `json:"months_worked"`
	DaysEarned   int          `json:"days_earned"`
}

type VacationSummaryDTO struct {
	EmployeeID   string       `json:"employee_id"`
	Year         int          `json:"year"`
	AsOf         generic.Date `json:"as_of"`
	MonthsWorked string       `json:"months_worked"`
	Earned       int          `json:"earned"`
	Taken        int          `json:"taken"`
	Available    int          `json:"available"`
}

type AnniversaryDTO struct {
	EmployeeID      string        `json:"employee_id"`
	AsOf            generic.Date  `json:"as_of"`
	YearsOfService  int           `json:"years_of_service"`
	NextAnniversary generic.Date  `json:"next_anniversary"`
	NextBirthday    *generic.Date `json:"next_birthday,omitempty"`
}

// =============================================================================
// ABSENCES
// =============================================================================

// SubmitAbsenceRequest creates an absence, or edits a pending one when ID
// is set. Today overrides the balance reference date.
type SubmitAbsenceRequest struct {
	ID     string       `json:"id,omitempty"`
	Kind   string       `json:"kind"`
	Start  generic.Date `json:"start"`
	End    generic.Date `json:"end"`
	Reason string       `json:"reason"`
	Today  generic.Date `json:"today"`
}

type AbsenceDTO struct {
	ID         string       `json:"id"`
	EmployeeID string       `json:"employee_id"`
	Kind       string       `json:"kind"`
	Start      generic.Date `json:"start"`
	End        generic.Date `json:"end"`
	Status     string       `json:"status"`
	Days       int          `json:"days"`
	Reason     string       `json:"reason,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type AvailabilityRequest struct {
	EmployeeID        string       `json:"employee_id"`
	Start             generic.Date `json:"start"`
	End               generic.Date `json:"end"`
	ExcludePermitID   string       `json:"exclude_permit_id,omitempty"`
	ExcludeVacationID string       `json:"exclude_vacation_id,omitempty"`
}

type AvailabilityResponse struct {
	Available bool        `json:"available"`
	Conflict  *AbsenceDTO `json:"conflict,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{
		Date:     h.Date,
		Original: h.Original,
		Name:     h.Name,
		Rule:     string(h.Rule),
		Shifted:  h.Shifted(),
	}
}

func toHolidayDTOs(hs []generic.Holiday) []HolidayDTO {
	out := make([]HolidayDTO, len(hs))
	for i, h := range hs {
		out[i] = toHolidayDTO(h)
	}
	return out
}

func toEmployeeDTO(rec timeoff.ServiceRecord) EmployeeDTO {
	dto := EmployeeDTO{ID: rec.EmployeeID, Name: rec.Name, HireDate: rec.HireDate}
	if !rec.BirthDate.IsZero() {
		b := rec.BirthDate
		dto.BirthDate = &b
	}
	return dto
}

func toAbsenceDTO(rec timeoff.AbsenceRecord) AbsenceDTO {
	return AbsenceDTO{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		Kind:       string(rec.Kind),
		Start:      rec.Period.Start,
		End:        rec.Period.End,
		Status:     string(rec.Status),
		Days:       rec.Days,
		Reason:     rec.Reason,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func toAbsenceDTOs(recs []timeoff.AbsenceRecord) []AbsenceDTO {
	out := make([]AbsenceDTO, len(recs))
	for i, r := range recs {
		out[i] = toAbsenceDTO(r)
	}
	return out
}

func toVacationSummaryDTO(s timeoff.VacationSummary) VacationSummaryDTO {
	return VacationSummaryDTO{
		EmployeeID:   s.EmployeeID,
		Year:         s.Year,
		AsOf:         s.AsOf,
		MonthsWorked: s.MonthsWorked.StringFixed(4),
		Earned:       s.Earned,
		Taken:        s.Taken,
		Available:    s.Available,
	}
}
