package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/sololvlup/docs"
	"github.com/fatflowers/sololvlup/internal/app/api/handlers"
	mw "github.com/fatflowers/sololvlup/internal/app/api/middleware"
	"github.com/fatflowers/sololvlup/internal/app/service/contact"
	"github.com/fatflowers/sololvlup/internal/app/service/lead"
	nh "github.com/fatflowers/sololvlup/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/sololvlup/internal/app/service/notification_log"
	"github.com/fatflowers/sololvlup/internal/app/service/payment"
	"github.com/fatflowers/sololvlup/internal/app/service/statistics"
	cfgpkg "github.com/fatflowers/sololvlup/pkg/config"
	metrics "github.com/fatflowers/sololvlup/pkg/metrics"
)

// Routes collects everything the HTTP routes are built from.
type Routes struct {
	fx.In

	Log          *zap.SugaredLogger
	Cfg          *cfgpkg.Config
	DB           *gorm.DB
	NotifHandler *nh.NotificationHandler
	Payments     *payment.Service
	NotifLog     *notificationlog.Service
	Contacts     *contact.Service
	Leads        *lead.Service
	Stats        *statistics.Service
}

func newEngine(log *zap.SugaredLogger, cfg *cfgpkg.Config) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(mw.RecoveryMiddleware(log, "Internal server error"))
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	r.Use(mw.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.NoMethod(methodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return r
}

func methodNotAllowed(c *gin.Context) {
	// the contact form reports errors under "message"
	if c.Request.URL.Path == "/api/contact" {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
		return
	}
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

func registerRoutes(r *gin.Engine, rt Routes) {
	log := rt.Log
	// Prometheus metrics
	if rt.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return "unmatched"
			},
			Logger: log,
		})
		if err := metrics.RegisterBusinessMetrics(prometheus.DefaultRegisterer); err != nil {
			log.Warnw("business metrics not registered", "error", err.Error())
		}
		p.SetListenAddress(rt.Cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", rt.Cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterHealthRoutes(pub, rt.DB)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterContactRoutes(api, rt.Contacts, rt.DB, log)
	handlers.RegisterLeadRoutes(api, rt.Leads, log)

	webhook := api.Group("")
	webhook.Use(mw.RecoveryMiddleware(log, "Webhook processing failed"))
	handlers.RegisterPaymentWebhookRoutes(webhook, rt.NotifHandler)

	// Admin APIs, basic auth
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	if !handlers.RegisterAdminPaymentRoutes(apiV1.Group("/admin"), rt.Cfg.Admin.Accounts, rt.Payments, rt.NotifLog, rt.Stats) {
		log.Infow("admin routes disabled: no admin accounts configured")
	}
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
