// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"net/http"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/monitor"
	"github.com/AccelByte/extend-cognitive-score/pkg/session"
	"github.com/gin-gonic/gin"
)

type activityRequest struct {
	Kind string `json:"kind" binding:"required"`
	// At defaults to the server clock.
	At *time.Time `json:"at,omitempty"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

func (h *Handler) running(c *gin.Context) (*session.Session, bool) {
	s, ok := h.sessions.Get(c.Param("uid"))
	if !ok {
		respondErr(c, errNoSession)
		return nil, false
	}
	return s, true
}

// StartSession starts the user's live session, or returns the running one.
func (h *Handler) StartSession(c *gin.Context) {
	s, started := h.sessions.Start(c.Param("uid"))

	st, err := s.Status(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	code := http.StatusOK
	if started {
		code = http.StatusCreated
		if scope := ScopeFrom(c); scope != nil {
			scope.TraceEvent("session started")
			scope.AddBaggage("session.id", st.SessionID)
		}
	}
	c.JSON(code, st)
}

// StopSession ends the user's session, flushing its queued writes.
func (h *Handler) StopSession(c *gin.Context) {
	if !h.sessions.Stop(c.Param("uid")) {
		respondErr(c, errNoSession)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RecordActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	s, ok := h.running(c)
	if !ok {
		return
	}

	at := h.cfg.Now()
	if req.At != nil {
		at = *req.At
	}

	accepted, err := s.RecordInteraction(c.Request.Context(), monitor.InteractionKind(req.Kind), at)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

func (h *Handler) SetVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	s, ok := h.running(c)
	if !ok {
		return
	}

	if err := s.SetVisible(c.Request.Context(), *req.Visible); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetToday returns the live snapshot with its breakdown and assessment.
func (h *Handler) GetToday(c *gin.Context) {
	s, ok := h.running(c)
	if !ok {
		return
	}

	st, err := s.Status(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// EditToday applies a manual correction of sleep, study or exercise.
func (h *Handler) EditToday(c *gin.Context) {
	var edit session.Edit
	if err := c.ShouldBindJSON(&edit); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	s, ok := h.running(c)
	if !ok {
		return
	}

	ctx, span := childScope(c, "session.apply_edit")
	st, err := s.ApplyEdit(ctx, edit)
	if span != nil {
		if err == nil {
			span.SetAttributes("score", st.Metrics.Score)
		}
		span.Finish()
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
