// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/AccelByte/extend-cognitive-score/pkg/session"
	"github.com/gin-gonic/gin"
)

var errNoSession = errors.New("no running session for user")

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError && err != nil {
		if scope := ScopeFrom(c); scope != nil {
			scope.TraceError(err)
			scope.Log.Errorf("%s: %v", code, err)
		}
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondErr maps a domain error to its status code.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, errNoSession), errors.Is(err, session.ErrSessionStopped):
		RespondError(c, http.StatusConflict, "no_session", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		RespondError(c, http.StatusServiceUnavailable, "timeout", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
