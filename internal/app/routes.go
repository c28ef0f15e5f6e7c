package app

import (
	"github.com/eqsched/eqsched/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Authentication
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", deps.AuthHandler.Logout).Methods("POST")
	r.HandleFunc("/api/auth/password", deps.AuthHandler.ChangePassword).Methods("PUT")

	// Events
	r.HandleFunc("/api/event", deps.ScheduleHandler.ListEvents).Methods("GET")
	r.HandleFunc("/api/event", deps.ScheduleHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event", deps.ScheduleHandler.DeleteEvents).Methods("DELETE")
	r.HandleFunc("/api/event/export", deps.ScheduleHandler.ExportEvents).Methods("GET")
	r.HandleFunc("/api/event/bulk", deps.ScheduleHandler.BulkUpdateEvents).Methods("POST")
	r.HandleFunc("/api/event/duplicate", deps.ScheduleHandler.DuplicateEvents).Methods("POST")
	r.HandleFunc("/api/event/{eventId}", deps.ScheduleHandler.UpdateEvent).Methods("PUT")

	// Calendar
	r.HandleFunc("/api/calendar", deps.CalendarHandler.GetMonth).Queries("year", "{year}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/calendar/day", deps.CalendarHandler.GetDay).Queries("date", "{date}").Methods("GET")
}
