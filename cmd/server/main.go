package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"studentForum/internal/config"
	chatport "studentForum/internal/modules/chats/application/port"
	chatusecase "studentForum/internal/modules/chats/application/usecase"
	chatinfra "studentForum/internal/modules/chats/infrastructure"
	chattransport "studentForum/internal/modules/chats/interface"
	forumusecase "studentForum/internal/modules/forum/application/usecase"
	forumtransport "studentForum/internal/modules/forum/interface"
	listingusecase "studentForum/internal/modules/listings/application/usecase"
	listinginfra "studentForum/internal/modules/listings/infrastructure"
	listingtransport "studentForum/internal/modules/listings/interface"
	mentorshipusecase "studentForum/internal/modules/mentorships/application/usecase"
	mentorshiptransport "studentForum/internal/modules/mentorships/interface"
	notificationusecase "studentForum/internal/modules/notifications/application/usecase"
	notificationtransport "studentForum/internal/modules/notifications/interface"
	postusecase "studentForum/internal/modules/posts/application/usecase"
	posttransport "studentForum/internal/modules/posts/interface"
	handler "studentForum/internal/modules/realtime/application/handler"
	usecase "studentForum/internal/modules/realtime/application/usecase"
	"studentForum/internal/modules/realtime/infrastructure"
	transport "studentForum/internal/modules/realtime/interface"
	userusecase "studentForum/internal/modules/users/application/usecase"
	usertransport "studentForum/internal/modules/users/interface"
	"studentForum/internal/platform/broker"
	"studentForum/internal/platform/store"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/httputil"
	"studentForum/internal/shared/logging"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.OpenDaily(cfg.Logging.Directory, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Service:   "student-forum",
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	if err := run(cfg, logger); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	openCtx, openCancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := store.Open(openCtx, cfg.Store.Options())
	openCancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	slog.Info("store opened", slog.String("driver", cfg.Store.Driver))

	// Realtime core
	policy, _ := infrastructure.ParseOverflowPolicy(cfg.Websocket.OverflowPolicy)
	hub := infrastructure.NewHub(policy)
	defer hub.Close()
	relay := usecase.NewRelayUseCase(hub)
	broadcastUC := usecase.NewBroadcastUseCase(hub)

	jwtManager := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	requireAuth := auth.RequireAuth(jwtManager)

	// REST services
	notifications := notificationusecase.NewNotificationService(db, relay)
	users := userusecase.NewUserService(db, jwtManager)
	forum := forumusecase.NewForumService(db, relay, notifications)
	mentorships := mentorshipusecase.NewMentorshipService(db, relay, notifications)
	chats := chatusecase.NewChatService(db, relay, newAssistant(cfg.Assistant))
	posts := postusecase.NewPostService(db)
	listings := listingusecase.NewListingService(db)

	if cfg.Seed.File != "" {
		if err := importSeed(ctx, listings, cfg.Seed.File); err != nil {
			slog.Warn("seed import failed", slog.String("file", cfg.Seed.File), slog.Any("error", err))
		}
	}

	// Kafka mutation feed
	registry := infrastructure.NewHandlerRegistry()
	for _, topic := range cfg.Kafka.Topics {
		registry.Register(handler.NewMutationStreamHandler(topic, cfg.Kafka.AllowedKinds, relay))
	}
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Any("topics", registry.Topics()))
	waitConsumers := broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, registry.Topics())

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Validator = httputil.NewRequestValidator()
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowedOrigins(cfg.Server.FrontendURL),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(logging.RequestLogger(logger))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Student Forum API"})
	})

	var topicGuard infrastructure.TopicGuard
	if cfg.Websocket.StrictTopics {
		topicGuard = infrastructure.NewStrictTopicGuard(mentorships.IsParticipant)
	}
	wsHandler := transport.NewWebsocketHandler(hub, transport.NewCommandProcessor(hub, broadcastUC, topicGuard), jwtManager, transport.SocketOptions{
		AllowedOrigins: allowedOrigins(cfg.Server.FrontendURL),
		RequireAuth:    cfg.Websocket.RequireAuth,
		SendBuffer:     cfg.Websocket.SendBuffer,
		RateLimit:      cfg.Websocket.RateLimit,
		RateInterval:   cfg.Websocket.RateInterval,
	})
	e.GET("/ws", wsHandler)
	e.GET("/socket", wsHandler)

	api := e.Group("/api")
	usertransport.NewHandler(users).Register(api, requireAuth)
	forumtransport.NewHandler(forum).Register(api, requireAuth)
	notificationtransport.NewHandler(notifications).Register(api, requireAuth)
	mentorshiptransport.NewHandler(mentorships).Register(api, requireAuth)
	chattransport.NewHandler(chats).Register(api, requireAuth)
	posttransport.NewHandler(posts).Register(api, requireAuth)
	listingtransport.NewHandler(listings).Register(api, requireAuth)
	transport.NewHandler(hub, relay, broadcastUC).Register(api, requireAuth, auth.RequireRole(auth.RoleAdmin, auth.RoleService))

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Esperar señales
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
		slog.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
	cancel()
	waitConsumers()
	return nil
}

func newAssistant(cfg config.AssistantConfig) chatport.Assistant {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		slog.Info("chat assistant: built-in responder")
		return chatinfra.NewBuiltinAssistant()
	}
	slog.Info("chat assistant: http", slog.String("baseURL", cfg.BaseURL))
	return chatinfra.NewAssistantHTTPClient(cfg.BaseURL, cfg.Timeout, nil)
}

func importSeed(ctx context.Context, listings *listingusecase.ListingService, path string) error {
	file, err := listinginfra.LoadSeedFile(path)
	if err != nil {
		return err
	}
	inserted, err := listings.Import(ctx, file.Listings())
	if err != nil {
		return err
	}
	slog.Info("seed imported", slog.String("file", path), slog.Int("inserted", inserted))
	return nil
}

func allowedOrigins(frontendURL string) []string {
	origins := []string{}
	for _, o := range strings.Split(frontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
