// Package api assembles the HTTP surface: REST handlers, the live websocket
// stream, Prometheus metrics and the optional single-page front-end.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"hems-sim/internal/api/handlers"
	"hems-sim/internal/api/middleware"
	"hems-sim/internal/config"
	"hems-sim/internal/live"
	"hems-sim/internal/live/ws"
	"hems-sim/internal/metrics"
	"hems-sim/internal/mqtt"
	"hems-sim/internal/runcache"
	"hems-sim/internal/synth"
)

// Deps are the long-lived services the router wires into handlers.
// Publisher may be nil.
type Deps struct {
	Config    *config.Config
	Log       logrus.FieldLogger
	Metrics   *metrics.Metrics
	Cache     *runcache.Cache
	Feed      *live.Feed
	Hub       *ws.Hub
	Publisher mqtt.Publisher
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(d.Log))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Logger(d.Log))

	simulationHandler := handlers.NewSimulationHandler(handlers.SimulationDeps{
		Defaults:   cfg.Battery,
		PresetsDir: cfg.PresetsDir,
		Day:        synth.HEMSDay(cfg.DatasetSeed),
		Cache:      d.Cache,
		Metrics:    d.Metrics,
		Publisher:  d.Publisher,
		Log:        d.Log,
	})
	batteryHandler := handlers.NewBatteryHandler(cfg.PresetsDir, d.Log)
	datasetHandler := handlers.NewDatasetHandler(cfg.DatasetSeed)
	liveHandler := handlers.NewLiveHandler(d.Feed)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.POST("/simulations", simulationHandler.RunSimulation)
		api.POST("/simulations/compare", simulationHandler.CompareSimulations)
		api.GET("/simulations/:id/ledger", simulationHandler.GetLedger)
		api.GET("/hems", simulationHandler.HEMS)

		api.GET("/batteries", batteryHandler.ListBatteries)

		api.GET("/datasets", datasetHandler.ListDatasets)
		api.GET("/datasets/demand", datasetHandler.GetDemand)
		api.GET("/datasets/weeks", datasetHandler.ListWeeks)
		api.GET("/datasets/weeks/:week", datasetHandler.GetWeek)
		api.GET("/datasets/temperature", datasetHandler.GetTemperature)
		api.GET("/datasets/window", datasetHandler.GetWindow)
		api.GET("/datasets/demand-price", datasetHandler.GetDemandPrice)
		api.GET("/datasets/mix", datasetHandler.GetMix)
		api.GET("/pages/*page", datasetHandler.GetPage)

		api.GET("/live", liveHandler.GetLive)
	}

	wsHandler := ws.NewHandler(d.Hub, d.Feed.Subscribe)
	router.GET("/ws/live", gin.WrapH(wsHandler))

	serveStatic(router, cfg.Server.StaticDir, d.Log)
	return router
}

// serveStatic serves a built front-end from dir, if present, falling back to
// index.html for client-side routes.
func serveStatic(router *gin.Engine, dir string, log logrus.FieldLogger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	}

	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.WithField("dir", dir).Info("static directory not found, skipping static file serving")
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/ws") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	log.WithField("dir", dir).Info("serving static files")
}
