// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"strings"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	scopeKey        = "scope"
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"
)

// AttachScope opens a trace scope per request, continuing any trace the
// caller propagated. Scope logs go through logger.
func AttachScope(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		scope := common.GetScopeFromContext(ctx, c.Request.Method+" "+c.FullPath())
		defer scope.Finish()
		scope.SetLogger(logger)

		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		scope.Log = scope.Log.WithField("requestID", reqID)
		if uid := c.Param("uid"); uid != "" {
			scope.WithUser(uid)
		}

		c.Request = c.Request.WithContext(scope.Ctx)
		c.Set(scopeKey, scope)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Writer.Header().Set(headerTraceID, scope.TraceID)
		c.Next()

		scope.SetAttributes("http.status_code", c.Writer.Status())
	}
}

// ScopeFrom returns the request scope set by AttachScope.
func ScopeFrom(c *gin.Context) *common.Scope {
	v, ok := c.Get(scopeKey)
	if !ok {
		return nil
	}
	scope, _ := v.(*common.Scope)
	return scope
}

// childScope opens a span for a downstream call under the request scope.
// The returned scope is nil when the request has none.
func childScope(c *gin.Context, name string) (context.Context, *common.Scope) {
	scope := ScopeFrom(c)
	if scope == nil {
		return c.Request.Context(), nil
	}
	child := scope.NewChildScope(name)
	return child.Ctx, child
}

func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		scope := ScopeFrom(c)
		if scope == nil {
			return
		}
		scope.Log.WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(start).String()).
			Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
