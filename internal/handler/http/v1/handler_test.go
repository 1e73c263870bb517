package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbaneye/crime_reporting_system/internal/config"
	"github.com/urbaneye/crime_reporting_system/internal/filter"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service"
	"github.com/urbaneye/crime_reporting_system/internal/service/mocks"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	incident  *mocks.MockIncidentService
	auth      *mocks.MockAuthService
	profile   *mocks.MockProfileService
	community *mocks.MockCommunityService
}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*Handler, testMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := testMocks{
		incident:  mocks.NewMockIncidentService(ctrl),
		auth:      mocks.NewMockAuthService(ctrl),
		profile:   mocks.NewMockProfileService(ctrl),
		community: mocks.NewMockCommunityService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		MapTilesToken: "test-tiles-token",
	}

	handler := NewHandler(m.incident, m.auth, m.profile, m.community, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, m, router
}

// authenticate настраивает моки так, чтобы токен "valid-token" разрешался
// в аутентифицированного пользователя
func authenticate(m testMocks, identity *models.Identity, isAdmin bool) {
	m.auth.EXPECT().Session(gomock.Any(), "valid-token").Return(identity, nil).AnyTimes()
	m.profile.EXPECT().IsAdmin(gomock.Any(), identity.ID).Return(isAdmin, nil).AnyTimes()
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer valid-token"}
}

func TestSignUp_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	userID := uuid.New()
	reqBody := SignUpRequest{Email: "new@example.com", Password: "secret123", FullName: "New Resident"}

	m.auth.EXPECT().
		SignUp(gomock.Any(), reqBody.Email, reqBody.Password, reqBody.FullName).
		Return(&models.Identity{ID: userID, Email: reqBody.Email}, "fresh-token", nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/signup", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fresh-token", resp.Token)
	assert.Equal(t, userID, resp.ID)
}

func TestSignUp_EmailTaken(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := SignUpRequest{Email: "taken@example.com", Password: "secret123"}

	m.auth.EXPECT().
		SignUp(gomock.Any(), reqBody.Email, reqBody.Password, "").
		Return(nil, "", fmt.Errorf("service: %w", service.ErrEmailTaken)).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/signup", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already taken")
}

func TestSignUp_InvalidEmail(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := SignUpRequest{Email: "not-an-email", Password: "secret123"}

	m.auth.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/signup", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Email' failed on the 'email' tag")
}

func TestSignIn_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	userID := uuid.New()
	reqBody := SignInRequest{Email: "resident@example.com", Password: "secret123"}

	m.auth.EXPECT().
		SignIn(gomock.Any(), reqBody.Email, reqBody.Password).
		Return(&models.Identity{ID: userID, Email: reqBody.Email}, "session-token", nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/signin", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session-token", resp.Token)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := SignInRequest{Email: "resident@example.com", Password: "wrong"}

	m.auth.EXPECT().
		SignIn(gomock.Any(), reqBody.Email, reqBody.Password).
		Return(nil, "", fmt.Errorf("service: %w", service.ErrInvalidCredentials)).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/signin", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestSignOut_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	m.auth.EXPECT().SignOut(gomock.Any(), "valid-token").Return(nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/auth/signout", nil, authHeader())

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSession_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	w := makeRequest(router, "GET", "/api/v1/auth/session", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, identity.ID, resp.ID)
	assert.Equal(t, identity.Email, resp.Email)
	assert.Empty(t, resp.Token)
}

func TestSession_NoToken(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/auth/session", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	reqBody := CreateIncidentRequest{
		Title:        "Bike Theft",
		Description:  "Bicycle stolen from the rack",
		IncidentType: "theft",
	}
	incidentID := uuid.New()

	m.incident.EXPECT().
		Report(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			// Автор отчета берется из сессии, не из тела запроса
			require.NotNil(t, inc.UserID)
			assert.Equal(t, identity.ID, *inc.UserID)
			inc.ID = incidentID
			inc.Priority = models.PriorityDefault
			inc.Status = models.StatusPending
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, "pending", resp.Status)
}

func TestReportIncident_Unauthenticated(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incident.EXPECT().Report(gomock.Any(), gomock.Any()).Times(0)

	reqBody := CreateIncidentRequest{Title: "X", Description: "Y", IncidentType: "theft"}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestReportIncident_UnknownType(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	m.incident.EXPECT().Report(gomock.Any(), gomock.Any()).Times(0)

	reqBody := CreateIncidentRequest{Title: "X", Description: "Y", IncidentType: "picnic"}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'IncidentType' failed on the 'oneof' tag")
}

func TestListIncidents_FilterFromQuery(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	expected := []*models.Incident{
		{ID: uuid.New(), Title: "Bike Theft", IncidentType: "theft", Status: "pending", Priority: "medium"},
	}

	m.incident.EXPECT().
		ListIncidents(gomock.Any(), filter.Selection{Search: "bike", Type: "theft", Status: "all", Severity: "all"}).
		Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?search=bike&type=theft", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, expected[0].Title, resp[0].Title)
}

func TestListIncidents_SessionStateUnresolved(t *testing.T) {
	_, m, router := newTestHandler(t)

	// Хранилище сессий недоступно: состояние не разрешилось
	m.auth.EXPECT().
		Session(gomock.Any(), "valid-token").
		Return(nil, errors.New("redis down")).AnyTimes()
	m.incident.EXPECT().ListIncidents(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil, authHeader())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "session state unresolved")
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	m.incident.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/not-a-uuid", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestUpdateProfile_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	name := "New Name"
	reqBody := UpdateProfileRequest{FullName: &name}
	expected := &models.Profile{ID: identity.ID, FullName: name}

	m.profile.EXPECT().
		UpdateProfile(gomock.Any(), identity.ID, gomock.Any()).
		Return(expected, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/v1/profile", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, name, resp.FullName)
}

func TestAdminRoutes_ForbiddenForNonAdmin(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	m.incident.EXPECT().ListForAdmin(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/admin/incidents", nil, authHeader())

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admin access required")
}

func TestAdminRoutes_UnauthorizedWithoutSession(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/admin/incidents", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminListIncidents_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "admin@example.com"}
	authenticate(m, identity, true)

	expected := []*models.Incident{
		{ID: uuid.New(), Title: "Bike Theft", ReporterName: "Resident One"},
	}
	m.incident.EXPECT().ListForAdmin(gomock.Any()).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/admin/incidents", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Resident One", resp[0].ReporterName)
}

func TestUpdateIncidentStatus_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "admin@example.com"}
	authenticate(m, identity, true)

	incidentID := uuid.New()
	m.incident.EXPECT().UpdateStatus(gomock.Any(), incidentID, "resolved").Return(nil).Times(1)

	bodyBytes, _ := json.Marshal(UpdateIncidentStatusRequest{Status: "resolved"})
	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/admin/incidents/%s/status", incidentID), bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateIncidentStatus_UnknownStatus(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "admin@example.com"}
	authenticate(m, identity, true)

	m.incident.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(UpdateIncidentStatusRequest{Status: "archived"})
	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/admin/incidents/%s/status", uuid.New()), bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Status' failed on the 'oneof' tag")
}

func TestToggleAdmin_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "admin@example.com"}
	authenticate(m, identity, true)

	targetID := uuid.New()
	m.profile.EXPECT().ToggleAdmin(gomock.Any(), targetID, false).Return(nil).Times(1)

	current := false
	bodyBytes, _ := json.Marshal(ToggleAdminRequest{Current: &current})
	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/admin/users/%s/admin", targetID), bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestToggleAdmin_MissingCurrentFlag(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "admin@example.com"}
	authenticate(m, identity, true)

	m.profile.EXPECT().ToggleAdmin(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/admin/users/%s/admin", uuid.New()), bytes.NewBufferString(`{}`), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Current' failed on the 'required' tag")
}

func TestMapConfig_WithToken(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	w := makeRequest(router, "GET", "/api/v1/map/config", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp MapConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Enabled)
	assert.Equal(t, "test-tiles-token", resp.TilesToken)
}

func TestCreateAlert_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	reqBody := CreateAlertRequest{Title: "Suspicious Activity", Message: "Strangers in the yard", Severity: "high"}

	m.community.EXPECT().
		PublishAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert *models.EmergencyAlert) error {
			assert.Equal(t, identity.Email, alert.AuthorName)
			alert.ID = 9
			alert.Status = models.AlertStatusActive
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)
}

func TestLikePost_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	m.community.EXPECT().LikePost(gomock.Any(), int64(3)).Return(14, nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/community/posts/3/like", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"likes":14`)
}

func TestLikePost_NotFound(t *testing.T) {
	_, m, router := newTestHandler(t)
	identity := &models.Identity{ID: uuid.New(), Email: "resident@example.com"}
	authenticate(m, identity, false)

	m.community.EXPECT().
		LikePost(gomock.Any(), int64(99)).
		Return(0, fmt.Errorf("service: %w", service.ErrNotFound)).Times(1)

	w := makeRequest(router, "POST", "/api/v1/community/posts/99/like", nil, authHeader())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
