package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urbaneye/crime_reporting_system/internal/config"
	"github.com/urbaneye/crime_reporting_system/internal/filter"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

type Handler struct {
	incidentService  service.IncidentService
	authService      service.AuthService
	profileService   service.ProfileService
	communityService service.CommunityService
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(
	incidentService service.IncidentService,
	authService service.AuthService,
	profileService service.ProfileService,
	communityService service.CommunityService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		incidentService:  incidentService,
		authService:      authService,
		profileService:   profileService,
		communityService: communityService,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// @Summary Report a new incident
// @Description Submit a new crime report. Requires an active session.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident report request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	identity := identityFromContext(c)
	if identity != nil {
		model.UserID = &identity.ID
	}

	if err := h.incidentService.Report(c.Request.Context(), model); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrAuthRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Get a list of incidents
// @Description Get all incidents, optionally narrowed by search text, type, status and severity. Requires an active session.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search text over location, type and description"
// @Param type query string false "Incident type" default(all)
// @Param status query string false "Incident status" default(all)
// @Param severity query string false "Incident priority" default(all)
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	sel := filter.Selection{
		Search:   c.Query("search"),
		Type:     c.DefaultQuery("type", filter.All),
		Status:   c.DefaultQuery("status", filter.All),
		Severity: c.DefaultQuery("severity", filter.All),
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), sel)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires an active session.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update incident status
// @Description Change the status of an incident. Admin only.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateIncidentStatusRequest true "New status"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /admin/incidents/{id}/status [put]
func (h *Handler) updateIncidentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "updateIncidentStatus").WithField("id", id)

	var input UpdateIncidentStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.incidentService.UpdateStatus(c.Request.Context(), id, input.Status); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to update incident status in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusOK)
}

// @Summary List incidents for the admin console
// @Description Get all incidents with reporter names. Admin only.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/incidents [get]
func (h *Handler) listIncidentsForAdmin(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidentsForAdmin")

	incidents, err := h.incidentService.ListForAdmin(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list incidents for admin from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get dashboard statistics
// @Description Get aggregated incident statistics. Requires an active session.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dashboard/stats [get]
func (h *Handler) dashboardStats(c *gin.Context) {
	log := h.logger.WithField("method", "dashboardStats")

	stats, err := h.incidentService.DashboardStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get dashboard stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Get map configuration
// @Description Get map tiles configuration. Without a tiles token the map degrades to a placeholder.
// @Tags Map
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MapConfigResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /map/config [get]
func (h *Handler) mapConfig(c *gin.Context) {
	c.JSON(http.StatusOK, MapConfigResponse{
		Enabled:    h.cfg.MapTilesToken != "",
		TilesToken: h.cfg.MapTilesToken,
	})
}

// @Summary Get geotagged incidents for the map
// @Description Get incidents that carry coordinates. Requires an active session.
// @Tags Map
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /map/incidents [get]
func (h *Handler) mapIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "mapIncidents")

	incidents, err := h.incidentService.ListGeotagged(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list geotagged incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
