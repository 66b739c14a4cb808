// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu sync.RWMutex
	logger   = newDefaultLogger().WithOptions(zap.AddCallerSkip(1))

	perfWarnings sync.Map
)

func newDefaultLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetLogger replaces the package logger. A nil logger silences output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l.WithOptions(zap.AddCallerSkip(1))
	loggerMu.Unlock()
}

func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func Debug(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

// PerformanceWarning logs msg once per process. Later calls with the same
// message are dropped.
func PerformanceWarning(msg string, fields ...zap.Field) {
	if _, loaded := perfWarnings.LoadOrStore(msg, struct{}{}); loaded {
		return
	}
	Logger().Warn("[PERF] "+msg, fields...)
}

// ResetPerformanceWarnings forgets every logged warning.
func ResetPerformanceWarnings() {
	perfWarnings.Range(func(key, _ any) bool {
		perfWarnings.Delete(key)
		return true
	})
}
