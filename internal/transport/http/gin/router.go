package httpgin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/tourdash/internal/complaint"
	"github.com/kirinyoku/tourdash/internal/dashboard"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/service"
	"github.com/kirinyoku/tourdash/internal/ticket"
)

// AlertSubscriber delivers alert feed change notifications.
type AlertSubscriber interface {
	Subscribe(ctx context.Context, handler func(ctx context.Context, count int)) error
}

func NewRouter(
	svcs *service.Services,
	alerts AlertSubscriber,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = complaint.MaxAttachmentBytes + 1<<20

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Tourist API
	r.POST("/location/detect", handleDetectLocation(svcs))
	r.GET("/location", handleGetLocation(svcs))
	r.GET("/preferences/tourist-type", handleGetTouristType(svcs))
	r.PUT("/preferences/tourist-type", handleSetTouristType(svcs))

	r.GET("/places/low-crowd", handleLowCrowd(svcs))
	r.GET("/places/high-crowd", handleHighCrowd(svcs))
	r.GET("/places/heatmap", handleHeatmap(svcs))
	r.GET("/footfall/insights", handleInsights(svcs))
	r.GET("/hotels", handleHotels(svcs))

	r.GET("/contact/country-codes", handleCountryCodes())
	r.GET("/tickets/options", handleTicketOptions(svcs))
	r.POST("/tickets", handleCreateTicket(svcs))

	r.POST("/complaints", handleFileComplaint(svcs))
	r.GET("/complaints/:id", handleGetComplaint(svcs))

	// Admin API
	r.POST("/admin/login", handleAdminLogin(svcs))
	r.POST("/admin/logout", handleAdminLogout(svcs))
	r.GET("/admin/session", handleAdminSession(svcs))

	admin := r.Group("/admin", AdminGuard(svcs.Admin))
	{
		admin.GET("/stats", handleAdminStats(svcs))
		admin.GET("/alerts", handleAdminAlerts(svcs))
		admin.GET("/alerts/stream", handleAlertsStream(svcs, alerts, logger))
		admin.GET("/alert-rules", handleGetAlertRules(svcs))
		admin.PUT("/alert-rules", handleSetAlertRules(svcs))
		admin.GET("/footfall", handleAdminFootfall(svcs))
		admin.GET("/footfall/series", handleFootfallSeries(svcs))
		admin.PUT("/footfall/selection", handleFootfallSelection(svcs))
		admin.GET("/footfall/live", handleFootfallLive(svcs))
		admin.GET("/hotels", handleAdminHotels(svcs))
		admin.GET("/visitors", handleAdminVisitors(svcs))
		admin.GET("/complaints", handleAdminComplaints(svcs))
	}

	return r
}

// --- Tourist handlers ---

// @Summary  Detect location from browser coordinates
// @Param    X-Client-ID header string false "client id"
// @Param    req body DetectLocationRequest true "coordinates or denial"
// @Success  200 {object} domain.UserLocation
// @Router   /location/detect [post]
func handleDetectLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DetectLocationRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err.Error())
			return
		}
		loc := svcs.Location.Detect(c.Request.Context(), clientID(c), req.coordinates())
		c.JSON(http.StatusOK, loc)
	}
}

// @Summary  Cached location
// @Success  200 {object} domain.UserLocation
// @Router   /location [get]
func handleGetLocation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svcs.Location.Cached(c.Request.Context(), clientID(c)))
	}
}

// @Summary  Tourist type preference
// @Success  200 {object} TouristTypeResponse
// @Router   /preferences/tourist-type [get]
func handleGetTouristType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := svcs.Location.TouristType(c.Request.Context(), clientID(c))
		c.JSON(http.StatusOK, TouristTypeResponse{TouristType: t, Set: ok})
	}
}

// @Summary  Save tourist type preference
// @Param    req body TouristTypeRequest true "domestic or international"
// @Success  200 {object} TouristTypeResponse
// @Failure  400 {object} ErrorResponse
// @Router   /preferences/tourist-type [put]
func handleSetTouristType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TouristTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Location.SetTouristType(c.Request.Context(), clientID(c), req.TouristType); err != nil {
			respondErr(c, err, "preferences")
			return
		}
		c.JSON(http.StatusOK, TouristTypeResponse{TouristType: req.TouristType, Set: true})
	}
}

// @Summary  Low-crowd recommendations and area alerts
// @Param    search query string false "place or city filter"
// @Param    limit  query int    false "max places"
// @Success  200 {object} dashboard.Recommendations
// @Failure  502 {object} ErrorResponse
// @Router   /places/low-crowd [get]
func handleLowCrowd(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		loc := svcs.Location.Effective(ctx, clientID(c))
		rec, err := svcs.Dashboard.Recommendations(ctx, loc, c.Query("search"), parseIntDefault(c.Query("limit"), 0))
		if err != nil {
			respondErr(c, err, "recommendations")
			return
		}
		writeJSONWithCache(c, rec, perClient)
	}
}

// @Summary  High-crowd places
// @Param    limit query int false "max places"
// @Success  200 {array} domain.Place
// @Router   /places/high-crowd [get]
func handleHighCrowd(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		loc := svcs.Location.Effective(ctx, clientID(c))
		places, err := svcs.Dashboard.HighCrowd(ctx, loc, parseIntDefault(c.Query("limit"), 0))
		if err != nil {
			respondErr(c, err, "crowded places")
			return
		}
		writeJSONWithCache(c, places, perClient)
	}
}

// @Summary  Crowd heatmap points
// @Success  200 {array} analytics.HeatPoint
// @Router   /places/heatmap [get]
func handleHeatmap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		loc := svcs.Location.Effective(ctx, clientID(c))
		points, err := svcs.Dashboard.Heatmap(ctx, loc)
		if err != nil {
			respondErr(c, err, "heatmap")
			return
		}
		writeJSONWithCache(c, points, perClient)
	}
}

// @Summary  Hourly crowd, per-place summary and best visit time
// @Success  200 {object} dashboard.Insights
// @Router   /footfall/insights [get]
func handleInsights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := svcs.Dashboard.Insights(c.Request.Context())
		if err != nil {
			respondErr(c, err, "insights")
			return
		}
		writeJSONWithCache(c, in, shared)
	}
}

// @Summary  Hotels near the caller or a searched city
// @Param    page          query int    false "page, from 1"
// @Param    limit         query int    false "page size"
// @Param    search        query string false "city"
// @Param    onlyAvailable query bool   false "vacancy at least 20%"
// @Param    minRating     query number false "minimum rating"
// @Success  200 {object} dashboard.HotelsView
// @Router   /hotels [get]
func handleHotels(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		minRating, _ := strconv.ParseFloat(c.Query("minRating"), 64)
		loc := svcs.Location.Effective(ctx, clientID(c))
		view, err := svcs.Dashboard.Hotels(ctx, loc, dashboard.HotelsQuery{
			Page:          parseIntDefault(c.Query("page"), 1),
			Limit:         parseIntDefault(c.Query("limit"), 0),
			Search:        c.Query("search"),
			OnlyAvailable: parseBool(c.Query("onlyAvailable")),
			MinRating:     minRating,
		})
		if err != nil {
			respondErr(c, err, "hotels")
			return
		}
		writeJSONWithCache(c, view, perClient)
	}
}

// @Summary  Dialing codes with expected phone lengths
// @Success  200 {array} domain.CountryCode
// @Router   /contact/country-codes [get]
func handleCountryCodes() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeJSONWithCache(c, domain.CountryCodes, cachePolicy{maxAge: 24 * time.Hour})
	}
}

// @Summary  Cities and places available for booking
// @Param    city query string false "city to list places for"
// @Success  200 {object} ticket.Options
// @Router   /tickets/options [get]
func handleTicketOptions(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		loc := svcs.Location.Effective(ctx, clientID(c))
		opts, err := svcs.Tickets.Options(ctx, loc, c.Query("city"))
		if err != nil {
			respondErr(c, err, "ticket options")
			return
		}
		c.JSON(http.StatusOK, opts)
	}
}

// @Summary  Book a ticket (idempotent)
// @Param    Idempotency-Key header string false "client key, generated when absent"
// @Param    req body ticket.Form true "booking form"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} TicketResponse
// @Success  200 {object} TicketResponse "replayed"
// @Failure  400 {object} ValidationErrorResponse
// @Failure  409 {object} ErrorResponse "same key in flight"
// @Failure  502 {object} ErrorResponse
// @Router   /tickets [post]
func handleCreateTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form ticket.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if idemKey == "" {
			idemKey = ticket.NewIdempotencyKey()
		}
		c.Header("Idempotency-Key", idemKey)

		ctx := c.Request.Context()
		loc := svcs.Location.Effective(ctx, clientID(c))
		receipt, replayed, err := svcs.Tickets.Submit(ctx, idemKey, loc, form)
		if err != nil {
			respondErr(c, err, "places")
			return
		}

		status := http.StatusCreated
		if replayed {
			status = http.StatusOK
		}
		c.JSON(status, TicketResponse{Receipt: receipt, Replayed: replayed})
	}
}

// @Summary  File a complaint
// @Accept   json,mpfd
// @Param    attachment formData file false "jpg, png or pdf up to 5MB"
// @Success  201 {object} domain.Complaint
// @Failure  400 {object} ValidationErrorResponse
// @Router   /complaints [post]
func handleFileComplaint(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			form complaint.Form
			up   *complaint.Upload
		)

		if strings.HasPrefix(c.ContentType(), "multipart/") {
			if err := c.ShouldBind(&form); err != nil {
				badRequest(c, err.Error())
				return
			}
			var err error
			up, err = readUpload(c, "attachment")
			if err != nil {
				badRequest(c, err.Error())
				return
			}
		} else if err := c.ShouldBindJSON(&form); err != nil {
			badRequest(c, err.Error())
			return
		}

		filed, err := svcs.Complaints.File(c.Request.Context(), form, up)
		if err != nil {
			respondErr(c, err, "complaints")
			return
		}
		c.JSON(http.StatusCreated, filed)
	}
}

// @Summary  Get a filed complaint
// @Param    id path string true "reference id"
// @Success  200 {object} domain.Complaint
// @Failure  404 {object} ErrorResponse
// @Router   /complaints/{id} [get]
func handleGetComplaint(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		filed, err := svcs.Complaints.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err, "complaint")
			return
		}
		c.JSON(http.StatusOK, filed)
	}
}

// --- Helpers ---

// readUpload reads an optional form file. Files over the size cap are cut
// one byte past it so validation can still reject them.
func readUpload(c *gin.Context, field string) (*complaint.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, complaint.MaxAttachmentBytes+1))
	if err != nil {
		return nil, err
	}

	return &complaint.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseBool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}
