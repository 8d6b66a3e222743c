package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moyinmi/trivia-api/internal/config"
	"github.com/moyinmi/trivia-api/internal/handler"
	"github.com/moyinmi/trivia-api/internal/middleware"
	pgRepo "github.com/moyinmi/trivia-api/internal/repository/postgres"
	redisRepo "github.com/moyinmi/trivia-api/internal/repository/redis"
	"github.com/moyinmi/trivia-api/internal/service"
	"github.com/moyinmi/trivia-api/internal/service/quizplay"
	"github.com/moyinmi/trivia-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции (таблицы + справочник категорий)
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	questionRepo := pgRepo.NewQuestionRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	questionService := service.NewQuestionService(
		questionRepo,
		categoryRepo,
		cacheRepo,
		cfg.Quiz.QuestionsPerPage,
		cfg.Quiz.MaxDifficulty,
		cfg.Quiz.CategoryCacheTTL,
	)
	quizService := service.NewQuizService(questionRepo, quizplay.NewSelector())

	// Инициализируем обработчики
	questionHandler := handler.NewQuestionHandler(questionService)
	quizHandler := handler.NewQuizHandler(quizService)

	// Инициализируем middleware
	rateLimiter := middleware.NewRateLimiter(redisClient)
	mutationLimit := rateLimiter.Limit(middleware.MutationRateLimitConfig())

	// Настраиваем роутер
	router := gin.Default()

	// CORS: фронтенд ходит с другого origin
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		// Справочник категорий
		api.GET("/categories", questionHandler.GetCategories)

		// Вопросы категории
		categoryQuestions := api.Group("/categories/:id")
		categoryQuestions.Use(middleware.ExtractUintParam("id", "categoryID"))
		{
			categoryQuestions.GET("/questions", questionHandler.GetQuestionsByCategory)
		}

		// Банк вопросов
		questions := api.Group("/questions")
		{
			questions.GET("", questionHandler.GetQuestions)
			questions.POST("", mutationLimit, questionHandler.CreateQuestion)

			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.DELETE("", mutationLimit, questionHandler.DeleteQuestion)
			}
		}

		// Поиск по подстроке
		api.POST("/search", questionHandler.SearchQuestions)

		// Режим игры: один случайный незаданный вопрос за запрос
		api.POST("/quizzes", quizHandler.PlayQuiz)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
