package service

import (
	"github.com/bugdesk/bugdesk/internal/config"
	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/store"
)

// Services groups every service into a single value passed to the TUI.
type Services struct {
	AuthService      AuthService
	StaffService     StaffService
	IncidentService  IncidentService
	ReportService    ReportService
	AttachmentReader AttachmentReader
}

// NewServices wires all services over the shared storages.
func NewServices(storages *store.Storages, defaults config.Defaults, log *logger.Logger) *Services {
	return &Services{
		AuthService:      NewAuthService(storages, log),
		StaffService:     NewStaffService(storages, defaults, log),
		IncidentService:  NewIncidentService(storages, log),
		ReportService:    NewReportService(storages, log),
		AttachmentReader: NewAttachmentReader(log),
	}
}
