// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSLogger(t *testing.T) {
	logger := DefaultSLogger()

	assert.NotNil(t, logger)

	// Discards output without panicking
	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
}

func TestSlogLoggerIsSLogger(t *testing.T) {
	logger, records := newCapturingLogger()

	var slogger SLogger = logger
	slogger.Warn("unknownAttribute", slog.String("key", "new_field"))

	assert.Equal(t, []string{"unknownAttribute"}, records.Messages())
}
