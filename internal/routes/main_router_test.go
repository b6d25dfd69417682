package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"project-system/migrations"
	"project-system/pkg/config"
	"project-system/pkg/constants"
	"project-system/pkg/customvalidator"
	"project-system/pkg/service"
	"project-system/pkg/utils"
)

// WorkItemAPITestSuite гоняет сквозной сценарий через HTTP-слой на живой
// тестовой базе. Без доступной базы набор пропускается.
type WorkItemAPITestSuite struct {
	suite.Suite
	Echo      *echo.Echo
	DB        *pgxpool.Pool
	Redis     *redis.Client
	UserToken string
	UserID    uint64
}

func (s *WorkItemAPITestSuite) SetupSuite() {
	cfg := config.New()

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		s.T().Skipf("тестовая база недоступна: %v", err)
	}

	dbConn, err := pgxpool.New(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		s.T().Skipf("тестовая база недоступна: %v", err)
	}
	if err := dbConn.Ping(context.Background()); err != nil {
		s.T().Skipf("тестовая база недоступна: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, DB: 1})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		s.T().Skipf("тестовый Redis недоступен: %v", err)
	}

	e := echo.New()
	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	nopLogger := zap.NewNop()
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, time.Hour, time.Hour)

	InitRouter(e, dbConn, redisClient, jwtSvc, nopLogger, cfg)

	s.Echo = e
	s.DB = dbConn
	s.Redis = redisClient

	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	s.Require().NoError(err)

	username := fmt.Sprintf("apitest_%d", time.Now().UnixNano())
	err = dbConn.QueryRow(ctx,
		`INSERT INTO users (username, full_name, email, password_hash, role)
		 VALUES ($1, 'Тестовый Пользователь', $2, $3, 'admin') RETURNING id`,
		username, username+"@example.com", hash).Scan(&s.UserID)
	s.Require().NoError(err, "создание тестового пользователя не должно падать")

	token, _, err := jwtSvc.GenerateTokens(s.UserID, "admin")
	s.Require().NoError(err)
	s.UserToken = token
}

func (s *WorkItemAPITestSuite) TearDownSuite() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

func (s *WorkItemAPITestSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.UserToken)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func bodyID(t *testing.T, rec *httptest.ResponseRecorder) uint64 {
	var response map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	data, ok := response["body"].(map[string]interface{})
	if !ok {
		t.Fatalf("в ответе нет body: %s", rec.Body.String())
	}
	return uint64(data["id"].(float64))
}

func (s *WorkItemAPITestSuite) TestWorkItemLifecycle() {
	var projectID, itemID uint64

	s.T().Run("создание проекта", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title": "Проект API-теста %d", "use_workflow": false}`, time.Now().UnixNano())
		rec := s.request(http.MethodPost, "/api/project", payload)
		assert.Equal(t, http.StatusCreated, rec.Code, "Body: %s", rec.Body.String())
		projectID = bodyID(t, rec)
		assert.NotZero(t, projectID)
	})
	if projectID == 0 {
		s.T().Fatal("проект не создан, продолжать нет смысла")
	}

	s.T().Run("создание активности", func(t *testing.T) {
		payload := fmt.Sprintf(
			`{"kind": "activity", "title": "Активность API-теста", "project_id": %d, "responsible_id": %d, "approver_id": %d}`,
			projectID, s.UserID, s.UserID)
		rec := s.request(http.MethodPost, "/api/work-item", payload)
		assert.Equal(t, http.StatusCreated, rec.Code, "Body: %s", rec.Body.String())
		itemID = bodyID(t, rec)
		assert.NotZero(t, itemID)
	})
	if itemID == 0 {
		s.T().Fatal("активность не создана, продолжать нет смысла")
	}
	itemIDStr := strconv.FormatUint(itemID, 10)

	s.T().Run("прямая смена статуса", func(t *testing.T) {
		payload := fmt.Sprintf(`{"status": %q, "version": 1}`, constants.StatusInProgress)
		rec := s.request(http.MethodPatch, "/api/work-item/"+itemIDStr+"/status", payload)
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())
	})

	s.T().Run("устаревшая версия даёт конфликт", func(t *testing.T) {
		payload := fmt.Sprintf(`{"status": %q, "version": 1}`, constants.StatusFinished)
		rec := s.request(http.MethodPatch, "/api/work-item/"+itemIDStr+"/status", payload)
		assert.Equal(t, http.StatusConflict, rec.Code, "Body: %s", rec.Body.String())
	})

	s.T().Run("история элемента не пуста", func(t *testing.T) {
		rec := s.request(http.MethodGet, "/api/work-item/"+itemIDStr+"/history", "")
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		blocks, ok := response["body"].([]interface{})
		assert.True(t, ok)
		assert.NotEmpty(t, blocks)
	})

	s.T().Run("статус проекта пересчитан", func(t *testing.T) {
		rec := s.request(http.MethodGet, "/api/project/"+strconv.FormatUint(projectID, 10), "")
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		data := response["body"].(map[string]interface{})
		assert.Equal(t, constants.StatusInProgress, data["status"])
	})

	var childID uint64
	s.T().Run("делегирование создаёт дочерний элемент", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title": "Делегированная задача", "responsible_id": %d, "approver_id": %d}`,
			s.UserID, s.UserID)
		rec := s.request(http.MethodPost, "/api/work-item/"+itemIDStr+"/delegate", payload)
		assert.Equal(t, http.StatusCreated, rec.Code, "Body: %s", rec.Body.String())
		childID = bodyID(t, rec)
		assert.NotZero(t, childID)
	})
	if childID == 0 {
		s.T().Fatal("дочерний элемент не создан, продолжать нет смысла")
	}

	s.T().Run("удаление родителя забирает всё поддерево", func(t *testing.T) {
		rec := s.request(http.MethodDelete, "/api/work-item/"+itemIDStr, "")
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		rec = s.request(http.MethodGet, "/api/work-item/"+strconv.FormatUint(childID, 10), "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "дочерний элемент должен исчезнуть вместе с родителем")

		var remaining int
		err := s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM work_items WHERE id = $1 OR id = $2 OR parent_id = $1",
			itemID, childID).Scan(&remaining)
		assert.NoError(t, err)
		assert.Zero(t, remaining, "в базе не должно остаться осиротевших строк поддерева")
	})

	s.T().Run("удаление проекта", func(t *testing.T) {
		rec := s.request(http.MethodDelete, "/api/project/"+strconv.FormatUint(projectID, 10), "")
		assert.Equal(t, http.StatusOK, rec.Code, "Body: %s", rec.Body.String())
	})
}

func TestWorkItemAPITestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("интеграционный набор пропущен в -short режиме")
	}
	suite.Run(t, new(WorkItemAPITestSuite))
}
