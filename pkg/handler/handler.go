// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package handler exposes the score engine over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/service"
	"github.com/AccelByte/extend-cognitive-score/pkg/session"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultHistoryDays = 7
	MaxHistoryDays     = 90
)

// Store is the read and exam side of the store used by the API. Live
// daily writes go through the sessions.
type Store interface {
	GetDailyMetrics(ctx context.Context, userID, date string) (state.DailyMetrics, bool, error)
	ListDailyMetrics(ctx context.Context, userID string, dates []string) ([]state.DailyMetrics, error)
	GetProgression(ctx context.Context, userID string) (*state.ProgressionState, error)
	ListExams(ctx context.Context, userID string) ([]state.Exam, error)
	PutExam(ctx context.Context, userID string, exam state.Exam) error
	DeleteExam(ctx context.Context, userID, examID string) error
}

type HealthChecker interface {
	Check(ctx context.Context) error
}

// Config decides which calendar day "today" is and where request logs go.
type Config struct {
	Location *time.Location
	Now      func() time.Time
	// Logger is the base entry request scopes log through. Defaults to the
	// standard logger.
	Logger   *logrus.Entry
}

// Handler serves the user-facing API.
type Handler struct {
	sessions *session.Manager
	store    Store
	insights service.InsightGenerator
	health   HealthChecker
	cfg      Config
}

func New(sessions *session.Manager, store Store, insights service.InsightGenerator, health HealthChecker, cfg Config) *Handler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{
		sessions: sessions,
		store:    store,
		insights: insights,
		health:   health,
		cfg:      cfg,
	}
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(AttachScope(h.cfg.Logger))
	r.Use(RequestLog())

	r.GET("/healthcheck", h.HealthCheck)

	user := r.Group("/api/users/:uid")
	{
		user.POST("/session/start", h.StartSession)
		user.POST("/session/stop", h.StopSession)

		user.POST("/activity", h.RecordActivity)
		user.POST("/visibility", h.SetVisibility)

		user.GET("/metrics/today", h.GetToday)
		user.PATCH("/metrics/today", h.EditToday)
		user.GET("/history", h.GetHistory)

		user.GET("/exams", h.ListExams)
		user.POST("/exams", h.CreateExam)
		user.PUT("/exams/:examId", h.PutExam)
		user.DELETE("/exams/:examId", h.DeleteExam)

		user.GET("/insight", h.GetInsight)
	}

	return r
}

func (h *Handler) today() string {
	return state.DateKey(h.cfg.Now(), h.cfg.Location)
}

// HealthCheck reports whether the store is reachable.
func (h *Handler) HealthCheck(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Check(c.Request.Context()); err != nil {
			RespondError(c, http.StatusServiceUnavailable, "unhealthy", err)
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
