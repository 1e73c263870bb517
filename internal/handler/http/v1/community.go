package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

// @Summary List community posts
// @Description Get the community feed, newest first. Requires an active session.
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CommunityPost
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /community/posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	log := h.logger.WithField("method", "listPosts")

	posts, err := h.communityService.ListPosts(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list posts from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary Publish a community post
// @Description Add a post to the community feed. Requires an active session.
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body CreatePostRequest true "Post request"
// @Success 201 {object} models.CommunityPost
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /community/posts [post]
func (h *Handler) createPost(c *gin.Context) {
	var input CreatePostRequest
	log := h.logger.WithField("method", "createPost")

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

	identity := identityFromContext(c)
	post := &models.CommunityPost{
		Title:      input.Title,
		Content:    input.Content,
		Category:   input.Category,
		AuthorID:   &identity.ID,
		AuthorName: identity.Email,
	}

	if err := h.communityService.PublishPost(c.Request.Context(), post); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to publish post in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// @Summary Like a community post
// @Description Increment the like counter of a post and return the new value. Requires an active session.
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} LikeResponse
// @Failure 400 {object} map[string]string "Invalid post ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Post not found"
// @Router /community/posts/{id}/like [post]
func (h *Handler) likePost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}
	log := h.logger.WithField("method", "likePost").WithField("id", postID)

	likes, err := h.communityService.LikePost(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		log.WithError(err).Error("Failed to like post in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, LikeResponse{Likes: likes})
}

// @Summary Record a post view
// @Description Increment the view counter of a post. Requires an active session.
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid post ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Post not found"
// @Router /community/posts/{id}/view [post]
func (h *Handler) viewPost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}

	if err := h.communityService.ViewPost(c.Request.Context(), postID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.logger.WithField("method", "viewPost").WithError(err).Error("Failed to record post view in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List post comments
// @Description Get comments of a post in insertion order. Requires an active session.
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 400 {object} map[string]string "Invalid post ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Post not found"
// @Router /community/posts/{id}/comments [get]
func (h *Handler) listComments(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}
	log := h.logger.WithField("method", "listComments").WithField("id", postID)

	comments, err := h.communityService.ListComments(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		log.WithError(err).Error("Failed to list comments from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// @Summary Add a comment
// @Description Add a comment to a post. Requires an active session.
// @Tags Community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param comment body CreateCommentRequest true "Comment request"
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string "Invalid post ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Post not found"
// @Router /community/posts/{id}/comments [post]
func (h *Handler) addComment(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}
	log := h.logger.WithField("method", "addComment").WithField("id", postID)

	var input CreateCommentRequest
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

	identity := identityFromContext(c)
	comment := &models.Comment{
		PostID:     postID,
		Content:    input.Content,
		AuthorName: identity.Email,
	}

	if err := h.communityService.AddComment(c.Request.Context(), comment); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to add comment in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// @Summary List emergency alerts
// @Description Get emergency alerts, newest first. Requires an active session.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EmergencyAlert
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")

	alerts, err := h.communityService.ListAlerts(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list alerts from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary Publish an emergency alert
// @Description Publish an emergency alert and enqueue a notification event. Requires an active session.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body CreateAlertRequest true "Alert request"
// @Success 201 {object} models.EmergencyAlert
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	var input CreateAlertRequest
	log := h.logger.WithField("method", "createAlert")

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

	identity := identityFromContext(c)
	alert := &models.EmergencyAlert{
		Title:      input.Title,
		Message:    input.Message,
		Severity:   input.Severity,
		Location:   input.Location,
		AuthorName: identity.Email,
	}

	if err := h.communityService.PublishAlert(c.Request.Context(), alert); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to publish alert in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, alert)
}
