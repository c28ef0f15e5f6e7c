package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eqsched/eqsched/internal/rest"
	"github.com/eqsched/eqsched/pkg/auth"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service  Service
	renderer CsvEventRenderer
}

func NewHandler(service Service, renderer CsvEventRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

type EventDTO struct {
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
	Billing      string `json:"billing"`
	Invoiced     string `json:"invoiced"`
	Notes        string `json:"notes"`
	DateModified string `json:"dateModified,omitempty"`
	ActionType   string `json:"actionType,omitempty"`
	ModifiedBy   string `json:"modifiedBy,omitempty"`
}

func eventToDTO(e Event) EventDTO {
	return EventDTO{
		ID:           e.ID,
		Title:        e.Title(),
		Date:         formatDate(e.Date),
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
		DateModified: formatDateModified(e.DateModified),
		ActionType:   string(e.ActionType),
		ModifiedBy:   e.ModifiedBy,
	}
}

func eventsToDTOs(events []Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}
	return dtos
}

// saveEventRequest is the body for create and single-edit. The date range
// is expanded into one record per day.
type saveEventRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Source    string `json:"source"`
	Client    string `json:"client"`
	Course    string `json:"course"`
	Trainer   string `json:"trainer"`
	Medium    string `json:"medium"`
	Location  string `json:"location"`
	Billing   string `json:"billing"`
	Invoiced  string `json:"invoiced"`
	Notes     string `json:"notes"`
}

func (r saveEventRequest) input() EventInput {
	return EventInput{
		Type:     EventType(r.Type),
		Status:   Status(r.Status),
		Source:   Source(r.Source),
		Client:   r.Client,
		Course:   r.Course,
		Trainer:  r.Trainer,
		Medium:   Medium(r.Medium),
		Location: r.Location,
		Billing:  r.Billing,
		Invoiced: Invoiced(r.Invoiced),
		Notes:    r.Notes,
	}
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}

	events, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTOs(events))
}

func (h *Handler) ExportEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}

	events, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	csvData, err := h.renderer.RenderEvents(events)
	if err != nil {
		log.Errorf("failed to render events export: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="Filtered_Events.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csvData)); err != nil {
		log.Errorf("failed to write events export: %v", err)
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req saveEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), req.input(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventsToDTOs(created))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["eventId"]

	var req saveEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		return
	}

	replaced, err := h.service.Update(r.Context(), eventId, req.input(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTOs(replaced))
}

type bulkUpdateRequest struct {
	Ids []string `json:"ids"`
	// Fields maps a column name to its new value. Only listed fields are
	// applied.
	Fields map[string]string `json:"fields"`
}

func (h *Handler) BulkUpdateEvents(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	changes, err := changesFromMap(req.Fields)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid field selection", err.Error())
		return
	}

	updated, err := h.service.BulkUpdate(r.Context(), req.Ids, changes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTOs(updated))
}

type duplicateRequest struct {
	Ids        []string `json:"ids"`
	TargetDate string   `json:"targetDate,omitempty"`
	RangeStart string   `json:"rangeStart,omitempty"`
	RangeEnd   string   `json:"rangeEnd,omitempty"`
}

func (h *Handler) DuplicateEvents(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var duplicates []Event
	switch {
	case req.TargetDate != "":
		target, err := time.Parse(DateLayout, req.TargetDate)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid targetDate", fmt.Sprintf("'targetDate' must be in %s format", DateLayout))
			return
		}
		duplicates, err = h.service.DuplicateToDate(r.Context(), req.Ids, target)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	case req.RangeStart != "" || req.RangeEnd != "":
		start, end, err := parseDateRange(req.RangeStart, req.RangeEnd)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
		duplicates, err = h.service.DuplicateRange(r.Context(), req.Ids, start, end)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	default:
		rest.WriteError(w, http.StatusBadRequest, "Missing duplication target", "provide targetDate or rangeStart and rangeEnd")
		return
	}

	rest.WriteJSON(w, http.StatusCreated, eventsToDTOs(duplicates))
}

type deleteRequest struct {
	Ids []string `json:"ids"`
}

func (h *Handler) DeleteEvents(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(r.Context(), req.Ids)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTOs(deleted))
}

func filterFromQuery(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Client: q.Get("client"),
	}
	// "All" / "All months" are the UI's pass-through sentinels.
	if trainer := q.Get("trainer"); trainer != "" && trainer != "All" {
		filter.Trainer = trainer
	}
	if status := q.Get("status"); status != "" && status != "All" {
		filter.Status = Status(status)
	}
	if source := q.Get("source"); source != "" && source != "All" {
		filter.Source = Source(source)
	}
	if month := q.Get("month"); month != "" && month != "All months" {
		filter.Month = month
	}
	fromString := q.Get("from")
	toString := q.Get("to")
	if (fromString == "") != (toString == "") {
		return Filter{}, errors.New("'from' and 'to' must be provided together")
	}
	if fromString != "" {
		from, err := time.Parse(DateLayout, fromString)
		if err != nil {
			return Filter{}, fmt.Errorf("'from' must be in %s format", DateLayout)
		}
		to, err := time.Parse(DateLayout, toString)
		if err != nil {
			return Filter{}, fmt.Errorf("'to' must be in %s format", DateLayout)
		}
		filter.From = from
		filter.To = to
	}
	return filter, nil
}

func changesFromMap(fields map[string]string) (FieldChanges, error) {
	var changes FieldChanges
	for name, value := range fields {
		switch name {
		case "Status":
			status := Status(value)
			changes.Status = &status
		case "Trainer":
			trainer := value
			changes.Trainer = &trainer
		case "Location":
			location := value
			changes.Location = &location
		case "Medium":
			medium := Medium(value)
			changes.Medium = &medium
		case "Invoiced":
			invoiced := Invoiced(value)
			changes.Invoiced = &invoiced
		case "Type":
			eventType := EventType(value)
			changes.Type = &eventType
		case "Source":
			source := Source(value)
			changes.Source = &source
		default:
			return FieldChanges{}, fmt.Errorf("field %q cannot be bulk-updated", name)
		}
	}
	return changes, nil
}

func parseDateRange(startString string, endString string) (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, startString)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("'startDate' must be in %s format", DateLayout)
	}
	end, err := time.Parse(DateLayout, endString)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("'endDate' must be in %s format", DateLayout)
	}
	return start, end, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrNoIdentity):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	case errors.Is(err, ErrReadOnly):
		rest.WriteError(w, http.StatusForbidden, "Read-only role", "Your role does not permit editing events")
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", "")
	case errors.Is(err, ErrEndBeforeStart):
		rest.WriteError(w, http.StatusBadRequest, "End date must be after start date", "")
	case errors.Is(err, ErrNoFieldsSelected):
		rest.WriteError(w, http.StatusBadRequest, "Please select at least one field to update", "")
	default:
		log.Errorf("event operation failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
