// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/AccelByte/extend-cognitive-score/pkg/session"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/gin-gonic/gin"
)

// GetHistory returns up to ?days=N daily documents ending today, oldest
// first. A running session supplies today's entry from its live snapshot.
func (h *Handler) GetHistory(c *gin.Context) {
	days, err := parseDays(c.Query("days"))
	if err != nil {
		respondErr(c, err)
		return
	}

	uid := c.Param("uid")
	dates, err := trailingDates(h.today(), days)
	if err != nil {
		respondErr(c, err)
		return
	}

	history, err := h.store.ListDailyMetrics(c.Request.Context(), uid, dates)
	if err != nil {
		respondErr(c, err)
		return
	}

	if s, ok := h.sessions.Get(uid); ok {
		if st, err := s.Status(c.Request.Context()); err == nil {
			history = withLive(history, st.Metrics, dates)
		}
	}

	c.JSON(http.StatusOK, gin.H{"days": history})
}

func parseDays(raw string) (int, error) {
	if raw == "" {
		return DefaultHistoryDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > MaxHistoryDays {
		return 0, fmt.Errorf("%w: days must be an integer in [1, %d]", session.ErrInvalidInput, MaxHistoryDays)
	}
	return days, nil
}

// trailingDates lists n date keys ending at today, oldest first.
func trailingDates(today string, n int) ([]string, error) {
	dates := make([]string, n)
	dates[n-1] = today
	for i := n - 2; i >= 0; i-- {
		prev, err := state.PreviousDateKey(dates[i+1])
		if err != nil {
			return nil, err
		}
		dates[i] = prev
	}
	return dates, nil
}

// withLive replaces or appends the live document if its date is in range.
func withLive(history []state.DailyMetrics, live state.DailyMetrics, dates []string) []state.DailyMetrics {
	if len(dates) == 0 || live.Date != dates[len(dates)-1] {
		return history
	}
	for i := range history {
		if history[i].Date == live.Date {
			history[i] = live
			return history
		}
	}
	return append(history, live)
}
