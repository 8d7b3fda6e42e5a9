// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import "errors"

var (
	// ErrInvalidInput rejects a manual edit; the prior values are kept.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionStopped is returned by commands sent to a stopped session.
	ErrSessionStopped = errors.New("session stopped")
)
