package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/UmidYul/21-IDUM/internal/audit"
	"github.com/UmidYul/21-IDUM/internal/auth"
	"github.com/UmidYul/21-IDUM/internal/config"
	"github.com/UmidYul/21-IDUM/internal/handlers/api"
	"github.com/UmidYul/21-IDUM/internal/handlers/web"
	"github.com/UmidYul/21-IDUM/internal/middlewares"
	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/UmidYul/21-IDUM/internal/news"
	"github.com/UmidYul/21-IDUM/internal/ratelimit"
	"github.com/UmidYul/21-IDUM/internal/render"
	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/internal/telegram"
	"github.com/UmidYul/21-IDUM/internal/users"
	"github.com/UmidYul/21-IDUM/model"
	"github.com/UmidYul/21-IDUM/params"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "Backend for the bilingual school site: public API and admin panel"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDocumentStore(dataFile string) *store.DocumentStore {
	db, err := store.Open(dataFile)
	if err != nil {
		slog.Error("Failed to open data file", "path", dataFile, "error", err)
		os.Exit(1)
	}
	return db
}

func setupAPIRoutes(
	router fiber.Router,
	cfg *config.Config,
	db *store.DocumentStore,
	sessionStore *sessions.Store,
	userService *users.UserService,
	authService *auth.AuthService,
	auditLog *audit.Recorder,
	newsService *news.NewsService,
	notifier telegram.Notifier,
	contactLimiter *ratelimit.Limiter,
) {
	var (
		authHandler    = api.NewAuthHandler(authService, cfg.Session, cfg.Production)
		auditHandler   = api.NewAuditHandler(auditLog)
		usersHandler   = api.NewUsersHandler(userService)
		newsHandler    = api.NewNewsHandler(newsService)
		contactHandler = api.NewContactHandler(notifier, contactLimiter)
		healthHandler  = api.NewHealthHandler(db, params.VersionWithCommit(gitCommit, gitDate))
	)

	router.Get("/health", healthHandler.GetHealth)
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiGroup := router.Group("/api")
	apiGroup.Post("/auth/login", authHandler.PostLogin)
	apiGroup.Post("/auth/logout", authHandler.PostLogout)
	apiGroup.Get("/auth/me", authHandler.GetMe)
	apiGroup.Get("/news", newsHandler.GetPublishedNews)
	apiGroup.Get("/news/:id", newsHandler.GetPublishedNewsItem)
	apiGroup.Post("/contact", contactHandler.PostContact)

	var (
		adminGroup = apiGroup.Group("/admin", sessions.RequireAuth(sessionStore))
		adminOnly  = sessions.RequireRoles(model.RoleAdmin)
		editorOK   = sessions.RequireRoles(model.RoleAdmin, model.RoleEditor)
	)
	adminGroup.Get("/audit/logins", adminOnly, auditHandler.GetRecentLogins)
	adminGroup.Get("/users", adminOnly, usersHandler.GetUsers)
	adminGroup.Post("/users", adminOnly, usersHandler.PostUser)
	adminGroup.Get("/users/:id", adminOnly, usersHandler.GetUser)
	adminGroup.Patch("/users/:id", adminOnly, usersHandler.PatchUser)
	adminGroup.Delete("/users/:id", adminOnly, usersHandler.DeleteUser)
	adminGroup.Get("/news", editorOK, newsHandler.GetAllNews)
	adminGroup.Post("/news", editorOK, newsHandler.PostNews)
	adminGroup.Get("/news/:id", editorOK, newsHandler.GetNewsItem)
	adminGroup.Patch("/news/:id", editorOK, newsHandler.PatchNews)
	adminGroup.Delete("/news/:id", editorOK, newsHandler.DeleteNews)
}

func setupWebRoutes(router fiber.Router, staticDir string, sessionStore *sessions.Store) {
	pagesHandler := web.NewPagesHandler(sessionStore)

	router.Static("/", staticDir)
	router.Static("/static", staticDir)
	router.Get("/admin/login", pagesHandler.GetLoginPage)

	adminPages := router.Group("/admin", sessions.RequireAuthPage(sessionStore))
	adminPages.Get("/", pagesHandler.GetDashboardPage())
	adminPages.Get("/news", pagesHandler.GetNewsPage())
	adminPages.Get("/users", pagesHandler.GetUsersPage())
	adminPages.Get("/audit", pagesHandler.GetAuditPage())
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))

	globalVars := fiber.Map{
		"siteName": cfg.SiteName,
		"baseURL":  cfg.BaseURL,
	}
	if err := render.Initialize(globalVars, cfg.TemplateDir); err != nil {
		slog.Error("Failed to initialize templates", "error", err)
		return err
	}

	db := mustInitDocumentStore(cfg.DataFile)

	// repositories
	userRepo := users.NewUserRepository(db)

	// services
	var (
		userService  = users.NewUserService(userRepo)
		sessionStore = sessions.NewStore(db, cfg.Session.MaxAge)
		auditLog     = audit.NewRecorder(db)
		authService  = auth.NewAuthService(userService, sessionStore, auditLog)
		newsService  = news.NewNewsService(db)
	)

	if err := userService.EnsureDefaultAdmin(ctx.Context, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		slog.Error("Could not ensure default admin", "error", err)
		return err
	}

	var (
		notifier       = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		contactLimiter = ratelimit.New(params.ContactRateInterval, 1)
	)

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + params.AuthTokenHeader,
	}))
	router.Use(middlewares.InjectGlobalVars(globalVars))

	setupAPIRoutes(router, cfg, db, sessionStore, userService, authService, auditLog, newsService, notifier, contactLimiter)
	setupWebRoutes(router, cfg.StaticDir, sessionStore)

	sweepCtx, stopSweeper := context.WithCancel(ctx.Context)
	defer stopSweeper()
	go sessions.NewSweeper(sessionStore, params.SessionSweepEvery).Run(sweepCtx)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				contactLimiter.Cleanup(time.Hour)
			}
		}
	}()

	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
