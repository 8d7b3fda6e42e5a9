// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/AccelByte/extend-cognitive-score/pkg/session"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type examRequest struct {
	Name          string   `json:"name"`
	TotalMarks    float64  `json:"totalMarks"`
	AchievedMarks *float64 `json:"achievedMarks,omitempty"`
}

func (r examRequest) exam(id string) (state.Exam, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return state.Exam{}, fmt.Errorf("%w: name is required", session.ErrInvalidInput)
	}
	if !finite(r.TotalMarks) || r.TotalMarks <= 0 {
		return state.Exam{}, fmt.Errorf("%w: totalMarks must be positive", session.ErrInvalidInput)
	}
	if a := r.AchievedMarks; a != nil && (!finite(*a) || *a < 0 || *a > r.TotalMarks) {
		return state.Exam{}, fmt.Errorf("%w: achievedMarks must be within [0, totalMarks]", session.ErrInvalidInput)
	}
	return state.Exam{ID: id, Name: name, TotalMarks: r.TotalMarks, AchievedMarks: r.AchievedMarks}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (h *Handler) ListExams(c *gin.Context) {
	exams, err := h.store.ListExams(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondErr(c, err)
		return
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].ID < exams[j].ID })
	c.JSON(http.StatusOK, gin.H{"exams": exams})
}

// CreateExam stores a new exam under a generated ID.
func (h *Handler) CreateExam(c *gin.Context) {
	h.saveExam(c, uuid.NewString(), http.StatusCreated)
}

// PutExam creates or replaces the exam at :examId.
func (h *Handler) PutExam(c *gin.Context) {
	h.saveExam(c, c.Param("examId"), http.StatusOK)
}

func (h *Handler) saveExam(c *gin.Context, id string, code int) {
	var req examRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	exam, err := req.exam(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	uid := c.Param("uid")
	if err := h.store.PutExam(c.Request.Context(), uid, exam); err != nil {
		respondErr(c, err)
		return
	}
	h.refreshExams(c.Request.Context(), c, uid)
	c.JSON(code, exam)
}

func (h *Handler) DeleteExam(c *gin.Context) {
	uid := c.Param("uid")
	if err := h.store.DeleteExam(c.Request.Context(), uid, c.Param("examId")); err != nil {
		respondErr(c, err)
		return
	}
	h.refreshExams(c.Request.Context(), c, uid)
	c.Status(http.StatusNoContent)
}

// refreshExams pushes the stored exam list into a running session so the
// score reflects it on the next response. Failures leave the session on
// its previous list.
func (h *Handler) refreshExams(ctx context.Context, c *gin.Context, uid string) {
	s, ok := h.sessions.Get(uid)
	if !ok {
		return
	}
	exams, err := h.store.ListExams(ctx, uid)
	if err == nil {
		err = s.SetExams(ctx, exams)
	}
	if err != nil {
		if scope := ScopeFrom(c); scope != nil {
			scope.Log.Warnf("failed to refresh session exams: %v", err)
		}
	}
}
