// Package server exposes the local control/status HTTP API.
// Endpoints:
//
//	GET  /healthz       liveness
//	GET  /status        current bar string and per-monitor latest values
//	POST /trigger/:id   request an immediate refresh of one monitor
//	GET  /metrics       prometheus registry
//
// Triggers submitted here go straight onto the bus, so they work even when
// the filesystem watch could not be established.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyhb/dwmbar/internal/bar"
	"github.com/skyhb/dwmbar/internal/metrics"
	"github.com/skyhb/dwmbar/internal/trigger"
)

type Router struct {
	agg   *bar.Aggregator
	bus   *trigger.Bus
	known map[string]struct{}
}

func NewRouter(agg *bar.Aggregator, bus *trigger.Bus, order []string) *Router {
	known := make(map[string]struct{}, len(order))
	for _, id := range order {
		known[id] = struct{}{}
	}
	return &Router{agg: agg, bus: bus, known: known}
}

// Handler returns the gin-powered http.Handler for mounting or serving.
func (r *Router) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/healthz", r.handleHealthz)
	g.GET("/status", r.handleStatus)
	g.POST("/trigger/:id", r.handleTrigger)
	g.GET("/metrics", gin.WrapH(metrics.Handler()))
	return g
}

// NewServer starts a standalone HTTP server on addr with conservative
// timeouts. The caller shuts it down via http.Server.Shutdown.
func NewServer(addr string, r *Router) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}

type errorResp struct {
	Error string `json:"error"`
}

type statusResp struct {
	Bar      string            `json:"bar"`
	Monitors map[string]string `json:"monitors"`
}

type triggerResp struct {
	Monitor   string `json:"monitor"`
	Delivered int    `json:"delivered"`
}

func (r *Router) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (r *Router) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, statusResp{
		Bar:      r.agg.Current(),
		Monitors: r.agg.Snapshot(),
	})
}

func (r *Router) handleTrigger(c *gin.Context) {
	id := c.Param("id")
	if _, ok := r.known[id]; !ok {
		c.JSON(http.StatusNotFound, errorResp{Error: "unknown monitor: " + id})
		return
	}
	n := r.bus.Publish(id)
	c.JSON(http.StatusOK, triggerResp{Monitor: id, Delivered: n})
}
