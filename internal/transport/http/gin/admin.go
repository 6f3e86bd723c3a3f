package httpgin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/tourdash/internal/admin"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/monitor"
	"github.com/kirinyoku/tourdash/internal/service"
)

// @Summary  Admin login
// @Param    req body LoginRequest true "credentials"
// @Success  200 {object} LoginResponse
// @Failure  400 {object} ValidationErrorResponse
// @Failure  401 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse
// @Router   /admin/login [post]
func handleAdminLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		id, sess, err := svcs.Admin.Login(c.Request.Context(), c.ClientIP(), req.Username, req.Password)
		if err != nil {
			respondErr(c, err, "session")
			return
		}

		maxAge := int(svcs.Admin.SessionTTL() / time.Second)
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(cookieAdminSession, id, max(maxAge, 1), "/", "", false, true)
		c.JSON(http.StatusOK, LoginResponse{SessionID: id, ExpiresAt: sess.ExpiresAt})
	}
}

// @Summary  Admin logout
// @Success  204
// @Router   /admin/logout [post]
func handleAdminLogout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := adminSessionID(c); id != "" {
			if err := svcs.Admin.Logout(c.Request.Context(), id); err != nil {
				respondErr(c, err, "session")
				return
			}
		}
		c.SetCookie(cookieAdminSession, "", -1, "/", "", false, true)
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Current admin session
// @Success  200 {object} SessionResponse
// @Router   /admin/session [get]
func handleAdminSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := svcs.Admin.Session(c.Request.Context(), adminSessionID(c))
		if !ok {
			c.JSON(http.StatusOK, SessionResponse{Valid: false})
			return
		}
		exp := sess.ExpiresAt
		c.JSON(http.StatusOK, SessionResponse{Valid: true, ExpiresAt: &exp})
	}
}

// @Summary  Headline KPIs
// @Success  200 {object} domain.DashboardStats
// @Failure  401 {object} SessionExpiredResponse
// @Security AdminSession
// @Router   /admin/stats [get]
func handleAdminStats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svcs.Admin.Stats(c.Request.Context())
		if err != nil {
			respondErr(c, err, "stats")
			return
		}
		writeJSONWithCache(c, stats, shared)
	}
}

// @Summary  Current alert feed
// @Success  200 {array} domain.Alert
// @Security AdminSession
// @Router   /admin/alerts [get]
func handleAdminAlerts(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		feed, err := svcs.Admin.Alerts(c.Request.Context())
		if err != nil {
			respondErr(c, err, "alerts")
			return
		}
		writeJSONWithCache(c, feed, noStore)
	}
}

// handleAlertsStream pushes the feed as server-sent events: once on
// connect, then on every alerts_changed notification.
//
// @Summary  Alert feed as server-sent events
// @Produce  text/event-stream
// @Security AdminSession
// @Router   /admin/alerts/stream [get]
func handleAlertsStream(svcs *service.Services, alerts AlertSubscriber, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if alerts == nil {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "alert stream unavailable"})
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		changed := make(chan struct{}, 1)
		go func() {
			err := alerts.Subscribe(ctx, func(context.Context, int) {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("alert subscription ended", "error", err)
			}
			cancel()
		}()

		c.Header("Cache-Control", "no-store")
		first := true
		c.Stream(func(w io.Writer) bool {
			if !first {
				select {
				case <-ctx.Done():
					return false
				case <-changed:
				}
			}
			first = false

			feed, err := svcs.Admin.Alerts(ctx)
			if err != nil {
				c.SSEvent("error", ErrorResponse{Error: "failed to load alerts"})
				return ctx.Err() == nil
			}
			c.SSEvent("alerts", feed)
			return true
		})
	}
}

// @Summary  Alert rules
// @Success  200 {object} domain.AlertRules
// @Security AdminSession
// @Router   /admin/alert-rules [get]
func handleGetAlertRules(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svcs.Admin.AlertRules(c.Request.Context()))
	}
}

// @Summary  Replace alert rules
// @Param    req body domain.AlertRules true "occupancy marks"
// @Success  200 {object} domain.AlertRules
// @Failure  400 {object} ValidationErrorResponse
// @Security AdminSession
// @Router   /admin/alert-rules [put]
func handleSetAlertRules(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rules domain.AlertRules
		if err := c.ShouldBindJSON(&rules); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Admin.SetAlertRules(c.Request.Context(), rules); err != nil {
			respondErr(c, err, "alert rules")
			return
		}
		c.JSON(http.StatusOK, rules)
	}
}

// @Summary  Footfall by city with the most crowded places
// @Param    city query string false "city, defaults to the first one"
// @Success  200 {object} admin.FootfallView
// @Security AdminSession
// @Router   /admin/footfall [get]
func handleAdminFootfall(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Admin.Footfall(c.Request.Context(), c.Query("city"))
		if err != nil {
			respondErr(c, err, "footfall")
			return
		}
		writeJSONWithCache(c, view, shared)
	}
}

// @Summary  Footfall series for one place
// @Param    city          query string true "city"
// @Param    tourist_place query string true "place"
// @Success  200 {array} domain.FootfallPoint
// @Security AdminSession
// @Router   /admin/footfall/series [get]
func handleFootfallSeries(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		series, err := svcs.Admin.FootfallSeries(c.Request.Context(), c.Query("city"), c.Query("tourist_place"))
		if err != nil {
			respondErr(c, err, "footfall series")
			return
		}
		writeJSONWithCache(c, series, noStore)
	}
}

// @Summary  Select the place polled for the live series
// @Param    req body FootfallSelectionRequest true "city and place"
// @Success  200 {object} monitor.FootfallLive
// @Security AdminSession
// @Router   /admin/footfall/selection [put]
func handleFootfallSelection(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FootfallSelectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		svcs.Footfall.Select(monitor.Selection{City: req.City, Place: req.Place})
		c.JSON(http.StatusOK, svcs.Footfall.Live())
	}
}

// @Summary  Latest polled series for the selected place
// @Success  200 {object} monitor.FootfallLive
// @Security AdminSession
// @Router   /admin/footfall/live [get]
func handleFootfallLive(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, svcs.Footfall.Live(), noStore)
	}
}

// @Summary  Hotel list with occupancy KPIs
// @Param    page          query int    false "page, from 1"
// @Param    limit         query int    false "page size"
// @Param    city          query string false "city"
// @Param    search        query string false "city or nearby place"
// @Param    onlyAvailable query bool   false "vacancy at least 20%"
// @Success  200 {object} admin.HotelsDashboard
// @Security AdminSession
// @Router   /admin/hotels [get]
func handleAdminHotels(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Admin.Hotels(c.Request.Context(), admin.HotelsQuery{
			Page:          parseIntDefault(c.Query("page"), 1),
			Limit:         parseIntDefault(c.Query("limit"), 0),
			City:          c.Query("city"),
			Search:        c.Query("search"),
			OnlyAvailable: parseBool(c.Query("onlyAvailable")),
		})
		if err != nil {
			respondErr(c, err, "hotels")
			return
		}
		writeJSONWithCache(c, view, shared)
	}
}

// @Summary  Visitor segmentation and time series
// @Param    city     query string false "city, defaults to the first one"
// @Param    interval query string false "bucket size"
// @Success  200 {object} admin.VisitorsView
// @Security AdminSession
// @Router   /admin/visitors [get]
func handleAdminVisitors(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svcs.Admin.Visitors(c.Request.Context(), c.Query("city"), c.Query("interval"))
		if err != nil {
			respondErr(c, err, "visitor analytics")
			return
		}
		writeJSONWithCache(c, view, shared)
	}
}

// @Summary  Most recent complaints
// @Param    limit query int false "max complaints"
// @Success  200 {array} domain.Complaint
// @Security AdminSession
// @Router   /admin/complaints [get]
func handleAdminComplaints(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Admin.Complaints(c.Request.Context(), parseIntDefault(c.Query("limit"), 50))
		if err != nil {
			respondErr(c, err, "complaints")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
