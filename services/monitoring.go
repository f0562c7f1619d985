package services

import (
	"runtime"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const MONITORING_SVC = "monitoring_svc"

// ==================== METRICS ====================

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elementa_http_requests_total",
		Help: "HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "elementa_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	xpGranted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elementa_xp_granted_total",
		Help: "Total XP granted across all learners",
	})

	achievementsUnlocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elementa_achievements_unlocked_total",
		Help: "Achievements unlocked",
	})

	challengesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elementa_challenges_completed_total",
		Help: "Daily challenges completed",
	})

	storeFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elementa_store_fallbacks_total",
		Help: "Remote store failures served by the local cache, by operation",
	}, []string{"op"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elementa_events_published_total",
		Help: "Notification bus events published, by event name",
	}, []string{"event"})

	memAlloc = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "elementa_memory_alloc_bytes",
		Help: "Bytes of allocated heap objects",
	})

	goroutines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "elementa_goroutines",
		Help: "Current goroutine count",
	})
)

// MonitoringService exposes prometheus metrics and a health probe on a
// dedicated port, away from the public API.
type MonitoringService struct {
	context.DefaultService

	registry *prometheus.Registry
	app      *fiber.App
	done     chan struct{}
	port     string
}

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *context.Context) error {
	svc.port = envOr("MONITORING_PORT", "9091")
	svc.registry = prometheus.NewRegistry()
	svc.registry.MustRegister(
		httpRequests,
		httpDuration,
		xpGranted,
		achievementsUnlocked,
		challengesCompleted,
		storeFallbacks,
		eventsPublished,
		memAlloc,
		goroutines,
	)
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	svc.done = make(chan struct{})
	go svc.collectRuntimeMetrics()

	svc.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	svc.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.registry, promhttp.HandlerOpts{})))
	svc.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	go func() {
		if err := svc.app.Listen(":" + svc.port); err != nil {
			log.WithError(err).Error("monitoring server stopped")
		}
	}()

	log.Infof("monitoring_svc listening on :%s", svc.port)
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.done != nil {
		close(svc.done)
	}
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

func (svc *MonitoringService) collectRuntimeMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-svc.done:
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			memAlloc.Set(float64(m.Alloc))
			goroutines.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware records request counts and latency for the public API.
func (svc *MonitoringService) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		httpRequests.WithLabelValues(c.Method(), path, statusLabel(c.Response().StatusCode())).Inc()
		httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
