package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), logger.Warn)
	sql := func() (string, int64) { return "SELECT 1", 0 }
	ctx := context.Background()

	gl.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "not found is a lookup result")

	gl.Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, 0, logs.Len(), "fast queries stay quiet at warn")

	gl.Trace(ctx, time.Now(), sql, errors.New("disk I/O error"))
	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	entries := logs.TakeAll()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "slow query", entries[1].Message)
	}

	gl.LogMode(logger.Silent).Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 0, logs.Len())

	gl.LogMode(logger.Info).Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, 1, logs.FilterMessage("query").Len())
}
