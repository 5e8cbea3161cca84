// Package main is the entry point for the Daniel's Library service.
//
// @title           Daniel's Library API
// @version         1.0.0
// @description     Book search front-end for the LibGen catalog.
//
//	Searches the catalog, resolves covers through a cascade of public sources,
//	proxies allow-listed cover images and resolves direct download links.
//
// @contact.name   API Support
// @contact.url    https://github.com/DANIELMWENDWA9451/Daniels-Library
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Covers
// @tag.description Cover lookup and image proxy
//
// @tag.name        Search
// @tag.description Catalog search and metadata
//
// @tag.name        Downloads
// @tag.description Download link resolution
//
// @tag.name        Diagnostics
// @tag.description Cache and activity diagnostics
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/config"
	_ "github.com/DANIELMWENDWA9451/Daniels-Library/docs" // swagger docs
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/app"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.InitializeApp(ctx, cfg)
	server := app.NewServer(application.Router, cfg.Server.Port)

	runErr := server.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = application.Shutdown(shutdownCtx)

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
