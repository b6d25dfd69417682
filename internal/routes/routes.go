package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"project-system/internal/controllers"
	"project-system/internal/integrations/llm"
	"project-system/internal/listeners"
	"project-system/internal/repositories"
	"project-system/internal/services"
	"project-system/pkg/config"
	"project-system/pkg/eventbus"
	"project-system/pkg/filestorage"
	"project-system/pkg/middleware"
	"project-system/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: начало создания маршрутов")

	// --- общие компоненты ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadDir)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn)
	bus := eventbus.New(logger)
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout, logger)

	// --- репозитории ---
	userRepo := repositories.NewUserRepository(dbConn, logger)
	projectRepo := repositories.NewProjectRepository(dbConn, logger)
	workItemRepo := repositories.NewWorkItemRepository(dbConn, logger)
	historyRepo := repositories.NewHistoryRepository(dbConn, logger)
	unitRepo := repositories.NewUnitRepository(dbConn, logger)
	teamRepo := repositories.NewTeamRepository(dbConn, logger)
	customFieldRepo := repositories.NewCustomFieldRepository(dbConn, logger)
	noteRepo := repositories.NewNoteRepository(dbConn, logger)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- сервисы ---
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, logger)
	userService := services.NewUserService(userRepo, workItemRepo, fileStorage, logger)
	projectService := services.NewProjectService(projectRepo, workItemRepo, userRepo, txManager, logger)
	workItemService := services.NewWorkItemService(
		workItemRepo, projectRepo, historyRepo, userRepo, txManager, bus, fileStorage, logger,
	)
	historyService := services.NewHistoryService(historyRepo, workItemRepo, userRepo, logger)
	unitService := services.NewUnitService(unitRepo, logger)
	teamService := services.NewTeamService(teamRepo, logger)
	customFieldService := services.NewCustomFieldService(customFieldRepo, logger)
	noteService := services.NewNoteService(noteRepo, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, cacheRepo, logger)
	reportService := services.NewReportService(workItemRepo, projectRepo, userRepo, logger)
	notificationService := services.NewNotificationService(cfg.SMTP, logger)
	chatService := services.NewChatService(projectRepo, workItemRepo, llmClient, logger)
	analysisService := services.NewAnalysisService(workItemRepo, llmClient, logger)

	// --- слушатели событий ---
	mailListener := listeners.NewMailListener(notificationService, userRepo, cfg.Server, logger)
	mailListener.Register(bus)

	// --- контроллеры ---
	authController := controllers.NewAuthController(authService, logger)
	userController := controllers.NewUserController(userService, logger)
	projectController := controllers.NewProjectController(projectService, logger)
	workItemController := controllers.NewWorkItemController(workItemService, historyService, logger)
	unitController := controllers.NewUnitController(unitService, logger)
	teamController := controllers.NewTeamController(teamService, logger)
	customFieldController := controllers.NewCustomFieldController(customFieldService, logger)
	noteController := controllers.NewNoteController(noteService, logger)
	dashboardController := controllers.NewDashboardController(dashboardService, logger)
	reportController := controllers.NewReportController(reportService, logger)
	assistantController := controllers.NewAssistantController(chatService, analysisService, logger)

	// --- роутеры ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runUserRouter(secureGroup, userController)
	runProjectRouter(secureGroup, projectController)
	runWorkItemRouter(secureGroup, workItemController)
	runDictionaryRouter(secureGroup, unitController, teamController, customFieldController, noteController)
	runDashboardRouter(secureGroup, dashboardController)
	runReportRouter(secureGroup, reportController)
	runAssistantRouter(secureGroup, assistantController)

	logger.Info("InitRouter: создание маршрутов завершено")
}
