// Package web is the thin JSON transport over the engines. Handlers do no
// business logic; they call into the store, syncer, and projector.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"missionctl/internal/cronplan"
	"missionctl/internal/runtime"
	"missionctl/internal/scheduler"
	"missionctl/internal/tasks"
)

// Server serves the dashboard API.
type Server struct {
	store     *tasks.Store
	runtime   *runtime.Client
	scheduler *scheduler.Service
	router    *gin.Engine
}

func NewServer(store *tasks.Store, rt *runtime.Client, sched *scheduler.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		store:     store,
		runtime:   rt,
		scheduler: sched,
		router:    router,
	}

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks/sync", s.handleSync)
		api.GET("/schedules", s.handleSchedules)
	}

	return s
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
}

func (s *Server) handleListTasks(c *gin.Context) {
	list, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []*tasks.Task{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleSync(c *gin.Context) {
	res, err := s.scheduler.TriggerNow(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": true, "created": res.Created, "updated": res.Updated})
}

// handleSchedules projects the runtime's cron jobs into calendar data.
func (s *Server) handleSchedules(c *gin.Context) {
	jobs, err := s.runtime.ListCronJobs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	entries := cronplan.CalendarEntries(jobs)
	week := make([][]cronplan.CalendarEntry, 7)
	for day := 0; day <= 6; day++ {
		week[day] = cronplan.EntriesForDay(entries, day)
	}

	descriptions := make(map[string]string, len(jobs))
	for _, job := range jobs {
		descriptions[job.ID] = job.Schedule.Describe()
	}

	c.JSON(http.StatusOK, gin.H{
		"week":          week,
		"alwaysRunning": cronplan.AlwaysRunning(jobs),
		"nextUp":        cronplan.NextUp(jobs, now),
		"descriptions":  descriptions,
	})
}
