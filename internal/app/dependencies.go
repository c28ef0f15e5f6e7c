package app

import (
	"github.com/eqsched/eqsched/internal/config"
	"github.com/eqsched/eqsched/internal/utils"
	"github.com/eqsched/eqsched/pkg/auth"
	"github.com/eqsched/eqsched/pkg/calendar"
	"github.com/eqsched/eqsched/pkg/schedule"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Directory      *auth.Directory
	CredentialRepo auth.CredentialRepo
	AuthService    auth.Service
	AuthHandler    *auth.Handler

	EventStore       schedule.EventStore
	ScheduleService  schedule.Service
	CsvEventRenderer schedule.CsvEventRenderer
	ScheduleHandler  *schedule.Handler

	CalendarHandler *calendar.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.Directory = auth.NewDirectory(cfg.Auth.Admins, cfg.Auth.Viewers, cfg.Auth.Trainers)
	deps.CredentialRepo = auth.NewInMemoryCredentialRepo(deps.Directory.Emails(), cfg.Auth.DefaultPassword)
	deps.AuthService = auth.NewService(deps.Directory, deps.CredentialRepo, cfg.Auth.TokenSecret, deps.Clock)
	deps.AuthHandler = auth.NewHandler(deps.AuthService)

	deps.EventStore = schedule.NewCSVStore(cfg.Storage.File)
	deps.ScheduleService = schedule.NewService(deps.EventStore, deps.Clock)
	deps.CsvEventRenderer = schedule.NewCsvEventRenderer()
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService, deps.CsvEventRenderer)

	deps.CalendarHandler = calendar.NewHandler(deps.ScheduleService)

	return deps
}
