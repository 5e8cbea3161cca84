// Package app provides logger initialization.
package app

import (
	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/logger"
)

// InitializeLogger configures the global zerolog logger.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}
