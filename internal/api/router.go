package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendbot/internal/scheduler"
	"trendbot/internal/storage"
)

// Server exposes the operational surface: liveness, last-cycle status and
// Prometheus metrics.
type Server struct {
	store *storage.Store
	sched *scheduler.Scheduler
}

func NewServer(store *storage.Store, sched *scheduler.Scheduler) *Server {
	return &Server{store: store, sched: sched}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/status", s.status)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"redis":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.sched.Snapshot())
}
