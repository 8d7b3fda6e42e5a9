// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"net/http"

	"github.com/AccelByte/extend-cognitive-score/pkg/service"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/gin-gonic/gin"
)

type insightResponse struct {
	Text     string                 `json:"text"`
	Fallback bool                   `json:"fallback"`
	Summary  service.MetricsSummary `json:"summary"`
}

// GetInsight returns a generated insight for today. Any generator failure
// degrades to the static fallback text.
func (h *Handler) GetInsight(c *gin.Context) {
	ctx := c.Request.Context()
	uid := c.Param("uid")

	summary, err := h.summary(ctx, uid)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := insightResponse{Summary: summary}
	if h.insights != nil {
		genCtx, span := childScope(c, "insight.generate")
		resp.Text, err = h.insights.Generate(genCtx, summary)
		if span != nil {
			if err != nil {
				span.TraceError(err)
			}
			span.Finish()
		}
	}
	if h.insights == nil || err != nil {
		if err != nil {
			if scope := ScopeFrom(c); scope != nil {
				scope.Log.Warnf("insight generation failed: %v", err)
			}
		}
		resp.Text = service.FallbackInsight
		resp.Fallback = true
	}
	c.JSON(http.StatusOK, resp)
}

// summary reads the live session when there is one, otherwise the stored
// documents.
func (h *Handler) summary(ctx context.Context, uid string) (service.MetricsSummary, error) {
	if s, ok := h.sessions.Get(uid); ok {
		if st, err := s.Status(ctx); err == nil {
			return newSummary(uid, st.Metrics, st.Progression), nil
		}
	}

	date := h.today()
	m, _, err := h.store.GetDailyMetrics(ctx, uid, date)
	if err != nil {
		return service.MetricsSummary{}, err
	}
	p, err := h.store.GetProgression(ctx, uid)
	if err != nil {
		return service.MetricsSummary{}, err
	}
	return newSummary(uid, m, *p), nil
}

func newSummary(uid string, m state.DailyMetrics, p state.ProgressionState) service.MetricsSummary {
	return service.MetricsSummary{
		UserID:      uid,
		Date:        m.Date,
		Score:       m.Score,
		BurnoutRisk: string(m.BurnoutRisk),
		SleepHours:  m.SleepHours,
		StudyHours:  m.StudyHours,
		ScreenTime:  m.ScreenTimeHours,
		ActiveFocus: m.ActiveFocusHours,
		StreakDays:  p.StreakDays,
		Level:       p.Level,
	}
}
