package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	"github.com/techagentng/complaintx/models"
	"github.com/techagentng/complaintx/realtime"
	"github.com/techagentng/complaintx/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	gdb    *db.GormDB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("GIN_MODE", "test")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	gdb := &db.GormDB{DB: gormDB}

	conf := &config.Config{Env: "test", JWTSecret: "test-secret"}
	userRepo := db.NewUserRepo(gdb)
	complaintRepo := db.NewComplaintRepo(gdb)
	pointsRepo := db.NewPointsRepo(gdb)
	actionRepo := db.NewActionHistoryRepo(gdb)
	withdrawalRepo := db.NewWithdrawalRepo(gdb)
	analyticsRepo := db.NewAnalyticsRepo(gdb)

	pointsService := services.NewPointsService(pointsRepo, conf)
	s := &Server{
		Config:               conf,
		Hub:                  realtime.NewHub(),
		UserRepository:       userRepo,
		ComplaintRepository:  complaintRepo,
		PointsRepository:     pointsRepo,
		ActionRepository:     actionRepo,
		WithdrawalRepository: withdrawalRepo,
		AuthService:          services.NewAuthService(userRepo, conf),
		ComplaintService:     services.NewComplaintService(complaintRepo, userRepo, pointsService, nil, nil, nil, conf),
		PointsService:        pointsService,
		WithdrawalService:    services.NewWithdrawalService(withdrawalRepo, actionRepo, pointsService, nil, conf),
		AnalyticsService:     services.NewAnalyticsService(analyticsRepo, nil, conf),
	}
	return &testEnv{router: s.setupRouter(), gdb: gdb}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload := ""
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = string(raw)
	}
	return e.do(t, method, path, token, payload, "application/json")
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func (e *testEnv) signupAndLogin(t *testing.T, email string) string {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", models.SignupRequest{
		Fullname: "Ada Citizen",
		Username: email,
		Email:    email,
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    email,
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) promoteToAdmin(t *testing.T, email string) {
	t.Helper()
	var role models.Role
	require.NoError(t, e.gdb.DB.Where("name = ?", models.RoleAdmin).First(&role).Error)
	require.NoError(t, e.gdb.DB.Model(&models.User{}).
		Where("email = ?", email).Update("role_id", role.ID).Error)
}

func complaintForm() string {
	form := url.Values{}
	form.Set("category", "roads")
	form.Set("subject", "Pothole on 5th")
	form.Set("description", "Deep pothole damaging vehicles near the school")
	return form.Encode()
}

func TestSubmitAndFetchComplaint(t *testing.T) {
	e := newTestEnv(t)
	token := e.signupAndLogin(t, "citizen@test.com")

	w := e.do(t, http.MethodPost, "/api/v1/complaints", token, complaintForm(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	require.NotNil(t, data["user_id"])

	w = e.do(t, http.MethodGet, "/api/v1/complaints/"+id, "", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAnonymousComplaintHasNoOwner(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/complaints", "", complaintForm(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	require.Nil(t, data["user_id"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	e := newTestEnv(t)
	token := e.signupAndLogin(t, "plain@test.com")

	w := e.do(t, http.MethodGet, "/api/v1/admin/complaints", token, "", "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodGet, "/api/v1/admin/complaints", "", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApproveComplaintFlowAwardsPoints(t *testing.T) {
	e := newTestEnv(t)
	userToken := e.signupAndLogin(t, "reporter@test.com")
	adminToken := e.signupAndLogin(t, "chief@test.com")
	e.promoteToAdmin(t, "chief@test.com")

	w := e.do(t, http.MethodPost, "/api/v1/complaints", userToken, complaintForm(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	id := data["id"].(string)

	w = e.doJSON(t, http.MethodPut, "/api/v1/admin/complaints/"+id+"/approve", adminToken, models.ApproveComplaintRequest{
		Points: 50,
		Reason: "verified on site",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/v1/me/points", userToken, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	points := decodeEnvelope(t, w)["data"].(map[string]interface{})
	require.EqualValues(t, 50, points["balance"])

	history := points["history"].([]interface{})
	require.Len(t, history, 1)
}

func TestApproveComplaintWithZeroPoints(t *testing.T) {
	e := newTestEnv(t)
	userToken := e.signupAndLogin(t, "zero@test.com")
	adminToken := e.signupAndLogin(t, "zchief@test.com")
	e.promoteToAdmin(t, "zchief@test.com")

	w := e.do(t, http.MethodPost, "/api/v1/complaints", userToken, complaintForm(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	id := data["id"].(string)

	w = e.doJSON(t, http.MethodPut, "/api/v1/admin/complaints/"+id+"/approve", adminToken, models.ApproveComplaintRequest{
		Points: 0,
		Reason: "informational, no award",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/v1/me/points", userToken, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	points := decodeEnvelope(t, w)["data"].(map[string]interface{})
	require.EqualValues(t, 0, points["balance"])
	history := points["history"].([]interface{})
	require.Len(t, history, 1)
}

func TestAnalyticsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	adminToken := e.signupAndLogin(t, "boss@test.com")
	e.promoteToAdmin(t, "boss@test.com")

	e.do(t, http.MethodPost, "/api/v1/complaints", "", complaintForm(), "application/x-www-form-urlencoded")
	e.do(t, http.MethodPost, "/api/v1/complaints", "", complaintForm(), "application/x-www-form-urlencoded")

	w := e.do(t, http.MethodGet, "/api/v1/admin/analytics/complaints", adminToken, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	require.EqualValues(t, 2, data["total"])
	require.EqualValues(t, 2, data["pending"])
}
