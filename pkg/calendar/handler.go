package calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/eqsched/eqsched/internal/rest"
	"github.com/eqsched/eqsched/pkg/schedule"
)

type Handler struct {
	events schedule.Service
}

func NewHandler(events schedule.Service) *Handler {
	return &Handler{events: events}
}

type DayDTO struct {
	Day           int               `json:"day"`
	Date          string            `json:"date,omitempty"`
	EventCount    int               `json:"eventCount"`
	TrainerCounts []TrainerCountDTO `json:"trainerCounts,omitempty"`
}

type TrainerCountDTO struct {
	Trainer string `json:"trainer"`
	Count   int    `json:"count"`
}

type MonthDTO struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Weeks [][]DayDTO `json:"weeks"`
}

// GetMonth renders the month grid for the authenticated identity's visible
// records.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid year", "'year' must be a number")
		return
	}
	monthNumber, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNumber < 1 || monthNumber > 12 {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", "'month' must be a number from 1 to 12")
		return
	}
	month := time.Month(monthNumber)

	events, err := h.events.List(r.Context(), schedule.Filter{Month: month.String()})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// The month filter matches the month in any year; narrow to the one asked for.
	grid := MonthGrid(events, year, month)

	dto := MonthDTO{Year: year, Month: monthNumber, Weeks: make([][]DayDTO, 0, len(grid))}
	for _, week := range grid {
		row := make([]DayDTO, 0, 7)
		for _, day := range week {
			row = append(row, dayToDTO(day))
		}
		dto.Weeks = append(dto.Weeks, row)
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

// GetDay lists the selected day's events for the detail panel.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	dateString := r.URL.Query().Get("date")
	date, err := time.Parse(schedule.DateLayout, dateString)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", "'date' must be in "+schedule.DateLayout+" format")
		return
	}

	events, err := h.events.List(r.Context(), schedule.Filter{From: date, To: date})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dayEvents := DayEvents(events, date)
	dtos := make([]dayEventDTO, 0, len(dayEvents))
	for _, e := range dayEvents {
		dtos = append(dtos, dayEventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

type dayEventDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Source       string `json:"source"`
	Client       string `json:"client"`
	Course       string `json:"course"`
	Trainer      string `json:"trainer"`
	Medium       string `json:"medium"`
	Location     string `json:"location"`
	Billing      string `json:"billing,omitempty"`
	Invoiced     string `json:"invoiced"`
	Notes        string `json:"notes,omitempty"`
	DateModified string `json:"dateModified,omitempty"`
	ActionType   string `json:"actionType,omitempty"`
	ModifiedBy   string `json:"modifiedBy,omitempty"`
}

func dayEventToDTO(e schedule.Event) dayEventDTO {
	dateModified := ""
	if !e.DateModified.IsZero() {
		dateModified = e.DateModified.Format(schedule.DateModifiedLayout)
	}
	return dayEventDTO{
		ID:           e.ID,
		Title:        e.Title(),
		Date:         e.Date.Format(schedule.DateLayout),
		Type:         string(e.Type),
		Status:       string(e.Status),
		Source:       string(e.Source),
		Client:       e.Client,
		Course:       e.Course,
		Trainer:      e.Trainer,
		Medium:       string(e.Medium),
		Location:     e.Location,
		Billing:      e.Billing,
		Invoiced:     string(e.Invoiced),
		Notes:        e.Notes,
		DateModified: dateModified,
		ActionType:   string(e.ActionType),
		ModifiedBy:   e.ModifiedBy,
	}
}

func dayToDTO(day Day) DayDTO {
	dto := DayDTO{Day: day.Day, EventCount: day.EventCount}
	if day.Day > 0 {
		dto.Date = day.Date.Format(schedule.DateLayout)
	}
	for _, tc := range day.TrainerCounts {
		dto.TrainerCounts = append(dto.TrainerCounts, TrainerCountDTO{Trainer: tc.Trainer, Count: tc.Count})
	}
	return dto
}
