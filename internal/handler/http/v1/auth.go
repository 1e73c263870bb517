package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

// @Summary Sign up
// @Description Register a new account. A profile is created alongside and a session is opened immediately.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SignUpRequest true "Sign up request"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Email already taken"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	log := h.logger.WithField("method", "signUp")

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

	identity, token, err := h.authService.SignUp(c.Request.Context(), input.Email, input.Password, input.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already taken"})
			return
		}
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to sign up in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Token: token, ID: identity.ID, Email: identity.Email})
}

// @Summary Sign in
// @Description Open a session for an existing account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SignInRequest true "Sign in request"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signin [post]
func (h *Handler) signIn(c *gin.Context) {
	var input SignInRequest
	log := h.logger.WithField("method", "signIn")

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

	identity, token, err := h.authService.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.WithError(err).Error("Failed to sign in in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Token: token, ID: identity.ID, Email: identity.Email})
}

// @Summary Sign out
// @Description Revoke the current session. Revoking an unknown token is not an error.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signout [post]
func (h *Handler) signOut(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
		h.logger.WithField("method", "signOut").WithError(err).Error("Failed to sign out in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get current session
// @Description Get the identity bound to the current session.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/session [get]
func (h *Handler) session(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: identity.ID, Email: identity.Email})
}

// @Summary Get own profile
// @Description Get the profile of the current user. A missing profile is served with default values.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /profile [get]
func (h *Handler) getProfile(c *gin.Context) {
	identity := identityFromContext(c)
	log := h.logger.WithField("method", "getProfile")

	profile, err := h.profileService.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		log.WithError(err).Error("Failed to get profile from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToProfileResponse(profile))
}

// @Summary Update own profile
// @Description Partially update the profile of the current user. The is_admin flag cannot be changed here.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile update request"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /profile [put]
func (h *Handler) updateProfile(c *gin.Context) {
	identity := identityFromContext(c)
	log := h.logger.WithField("method", "updateProfile")

	var input UpdateProfileRequest
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

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), identity.ID, DTOToProfileUpdate(input))
	if err != nil {
		log.WithError(err).Error("Failed to update profile in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToProfileResponse(profile))
}

// @Summary List user profiles
// @Description Get all user profiles. Admin only.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProfileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users [get]
func (h *Handler) listProfiles(c *gin.Context) {
	log := h.logger.WithField("method", "listProfiles")

	profiles, err := h.profileService.ListProfiles(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list profiles from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToProfileResponses(profiles))
}

// @Summary Toggle admin flag
// @Description Toggle the admin flag of a user relative to the value the caller last saw. Admin only.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param flag body ToggleAdminRequest true "Current admin flag as seen by the caller"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid user ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "User not found"
// @Router /admin/users/{id}/admin [put]
func (h *Handler) toggleAdmin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	log := h.logger.WithField("method", "toggleAdmin").WithField("id", id)

	var input ToggleAdminRequest
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

	if err := h.profileService.ToggleAdmin(c.Request.Context(), id, *input.Current); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.WithError(err).Error("Failed to toggle admin flag in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusOK)
}
