// Package service groups the application services handed to the transport
// layer.
package service

import (
	"github.com/kirinyoku/tourdash/internal/admin"
	"github.com/kirinyoku/tourdash/internal/complaint"
	"github.com/kirinyoku/tourdash/internal/dashboard"
	"github.com/kirinyoku/tourdash/internal/location"
	"github.com/kirinyoku/tourdash/internal/monitor"
	"github.com/kirinyoku/tourdash/internal/ticket"
)

type Services struct {
	Location   *location.Service
	Dashboard  *dashboard.Service
	Tickets    *ticket.Service
	Complaints *complaint.Service
	Admin      *admin.Service
	Footfall   *monitor.FootfallMonitor
}

type Deps struct {
	Location   *location.Service
	Dashboard  *dashboard.Service
	Tickets    *ticket.Service
	Complaints *complaint.Service
	Alerts     *monitor.AlertMonitor
	Footfall   *monitor.FootfallMonitor
	Backend    admin.Backend
	Sessions   admin.Sessions
	Limiter    admin.Limiter
}

// NewServices builds the admin service on top of the shared ones so the
// console and the tourist views read the same cached data.
func NewServices(deps Deps, adminCfg admin.Config) *Services {
	adminDeps := admin.Deps{
		Backend:  deps.Backend,
		Overview: deps.Dashboard,
		Sessions: deps.Sessions,
		Alerts:   deps.Alerts,
		Limiter:  deps.Limiter,
	}
	if deps.Complaints != nil {
		adminDeps.Complaints = deps.Complaints
	}

	return &Services{
		Location:   deps.Location,
		Dashboard:  deps.Dashboard,
		Tickets:    deps.Tickets,
		Complaints: deps.Complaints,
		Admin:      admin.New(adminDeps, adminCfg),
		Footfall:   deps.Footfall,
	}
}
