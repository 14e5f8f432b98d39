package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/json-oracle/oracle_engine/config"
	"github.com/json-oracle/oracle_engine/internal/analysis"
	"github.com/json-oracle/oracle_engine/internal/dashboard"
	"github.com/json-oracle/oracle_engine/internal/inference"
	"github.com/json-oracle/oracle_engine/internal/integrations"
	"github.com/json-oracle/oracle_engine/internal/notify"
	"github.com/json-oracle/oracle_engine/internal/store"
	"github.com/json-oracle/oracle_engine/logger"
	"github.com/json-oracle/oracle_engine/middleware"
	"github.com/json-oracle/oracle_engine/rabbitmq"

	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
}

func newServer() *Server {
	return &Server{router: gin.New()}
}

func printBanner(cfg *config.Config) {
	banner := "\n" +
		"┌────────────────────────────────────────────────────────────┐\n" +
		"│   🔮  JSON Oracle Engine                                    │\n" +
		"│   Status   : ONLINE                                         │\n" +
		"│   HTTP     : http://" + cfg.Server.HTTP + "\n" +
		"│   Env      : " + cfg.AppEnv + "\n" +
		"│   Logs     : zap (structured)                               │\n" +
		"│   Tip      : export LOG_LEVEL=debug for verbose logs        │\n" +
		"└────────────────────────────────────────────────────────────┘\n"
	fmt.Print(banner)
}

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	log := logger.ZapForService("oracle_engine")
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)

	server := newServer()
	server.router.Use(gin.Recovery())
	server.router.MaxMultipartMemory = 8 << 20

	server.router.Use(secure.New(secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self';",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	if cfg.Cors.UseTempCors {
		log.Debug("using temporary CORS middleware (allow all origins)")
		server.router.Use(middleware.TmpCORSMiddleware())
	} else {
		log.Debug("using strict CORS middleware (regex)")
		server.router.Use(middleware.CORSMiddleware(cfg.Cors.AllowedOriginExp))
	}

	server.router.Use(middleware.LogRequestBody())

	// The broker is optional infrastructure: without it the engine still
	// serves every route, it just publishes no events.
	var qConn *rabbitmq.Conn
	if conn, err := rabbitmq.GetConn(cfg.RabbitMQ); err != nil {
		log.Warnw("rabbitmq unavailable, events disabled", "err", err)
	} else {
		qConn = &conn
		defer conn.Close()
	}

	integrationStore := store.NewIntegrationStore(log)
	resultLog := store.NewResultLog(log)

	notifyLog := logger.GetLogger()
	hub := notify.NewHub(notifyLog)
	sendTimeout := time.Duration(cfg.Notifications.SendTimeoutSeconds) * time.Second
	dispatcher := notify.NewDispatcher(notify.NewHTTPSender(sendTimeout), qConn, cfg.RabbitMQ.Exchange, hub, sendTimeout, notifyLog)

	inferrer := inference.NewOllamaClient(cfg.Ollama, logger.ZapForService("ollama"))
	pipeline := analysis.NewPipeline(integrationStore, resultLog, analysis.NewKeywordInterpreter(), inferrer, dispatcher, log)
	svc := integrations.NewService(integrationStore, resultLog, qConn, cfg.RabbitMQ.Exchange, log)
	agg := dashboard.NewAggregator(integrationStore, resultLog)

	integrations.RegisterIntegrationRoutes(server.router, cfg, svc, pipeline, agg, hub, log)

	server.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})

	printBanner(cfg)
	server.start(context.Background(), cfg, log)
}

func (s *Server) start(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) {
	httpSrv := &http.Server{
		Addr:           cfg.Server.HTTP,
		Handler:        s.router,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
	}

	go func() {
		log.Infow("http listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("http server start failed", "err", err)
			panic(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-ch:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http shutdown error", "err", err)
	}
	log.Info("server stopped")
}
