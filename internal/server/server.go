package server

import (
	"math/rand/v2"
	"net/http"
	"time"

	"tragedy-commons/internal/cache"
	"tragedy-commons/internal/config"
	"tragedy-commons/internal/logging"
	"tragedy-commons/internal/metrics"
	"tragedy-commons/internal/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	db       *gorm.DB
	cfg      config.Config
	logger   *zap.Logger
	mailer   *notify.Mailer
	results  cache.Results
	sessions *sessionStore
	roll     func() int
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithMailer(mailer *notify.Mailer) Option {
	return func(s *Server) { s.mailer = mailer }
}

func WithResultsCache(results cache.Results) Option {
	return func(s *Server) { s.results = results }
}

// WithRoll replaces the die of the random prisoner's dilemma partner.
func WithRoll(roll func() int) Option {
	return func(s *Server) { s.roll = roll }
}

func New(conn *gorm.DB, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		db:   conn,
		cfg:  cfg,
		roll: func() int { return rand.IntN(11) },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.sessions = newSessionStore(conn, s.logger)
	if s.mailer == nil {
		s.mailer = notify.NewMailer(notify.LogSender{Logger: s.logger}, cfg.MailFrom, cfg.BaseURL)
	}
	if s.results == nil {
		s.results = cache.NewMemory(time.Duration(cfg.ResultsCacheSeconds) * time.Second)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	registerValidators()
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(s.logger), metrics.Middleware())

	router.GET("/", s.handleHome)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", metrics.Handler())
	router.Static("/static", "static")

	router.GET("/requests", s.handleRequestForm)
	router.POST("/requests", s.handleRequestSubmit)
	router.GET("/requests/instructions", s.handleInstructions)

	admin := router.Group("/admin")
	if s.cfg.AdminAuthEnabled() {
		admin.Use(gin.BasicAuth(gin.Accounts{s.cfg.AdminUsername: s.cfg.AdminPassword}))
	}
	admin.GET("/requests", s.handleAdminRequests)
	admin.GET("/requests/:gid", s.handleAdminRequest)
	admin.POST("/requests/:gid/approve", s.handleAdminApprove)
	admin.POST("/requests/:gid/reject", s.handleAdminReject)

	router.GET("/play", s.handlePasswordView)
	router.POST("/play", s.handlePasswordSubmit)
	router.GET("/games/:gid", s.handleStartView)
	router.POST("/games/:gid/players", s.handleJoin)
	router.GET("/games/:gid/players/:pid", s.handlePlayerView)
	router.POST("/games/:gid/players/:pid/rounds", s.handleSubmitRound)
	router.GET("/games/:gid/players/:pid/rounds/:rid/wait", s.handleWaitView)
	router.GET("/api/games/:gid/players/:pid/rounds/:rid", s.handleRoundStatus)

	router.GET("/games/:gid/manage", s.handleManageView)
	router.POST("/games/:gid/rounds/close", s.handleCloseRoundForm)
	router.POST("/api/games/:gid/rounds/close", s.handleCloseRoundAPI)
	router.GET("/games/:gid/results", s.handleResultsView)
	router.GET("/games/:gid/results.xlsx", s.handleResultsExport)

	router.GET("/farm", s.handleFarm)
	router.POST("/farm", s.handleFarmSubmit)
	router.GET("/whaling", s.handleWhaling)
	router.POST("/whaling", s.handleWhalingSubmit)
	router.GET("/dilemma", s.handleDilemma)
	router.POST("/dilemma", s.handleDilemmaSubmit)
	router.GET("/dilemma/classic", s.handleClassicDilemma)
	router.POST("/dilemma/classic", s.handleClassicDilemmaSubmit)
	return router
}
