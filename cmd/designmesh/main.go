package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/designmesh/artifact"
	"github.com/hupe1980/designmesh/capability"
	anthropiccap "github.com/hupe1980/designmesh/capability/anthropic"
	"github.com/hupe1980/designmesh/capability/arcade"
	"github.com/hupe1980/designmesh/capability/imagefetch"
	openaicap "github.com/hupe1980/designmesh/capability/openai"
	"github.com/hupe1980/designmesh/config"
	"github.com/hupe1980/designmesh/logging"
	"github.com/hupe1980/designmesh/pipeline"
	"github.com/hupe1980/designmesh/registry"
	"github.com/hupe1980/designmesh/server"
)

func main() {
	cfg := config.Load()

	logCfg := logging.DefaultLoggerConfig()
	logCfg.Component = "designmesh"
	if cfg.App.Environment == "development" {
		logCfg.Format = "text"
		logCfg.AddSource = false
	}
	logger := logging.NewLogger(logCfg)

	artifacts, err := artifact.NewDirStore(cfg.App.UploadsDir)
	if err != nil {
		log.Fatalf("uploads dir: %v", err)
	}

	openaiCap := openaicap.New()

	var vision capability.VisionModel = openaiCap
	if cfg.Provider.Vision == "anthropic" {
		vision = anthropiccap.New(func(o *anthropiccap.Options) {
			o.APIKey = cfg.Provider.AnthropicAPIKey
		})
	}

	searcher := arcade.New(func(o *arcade.Options) {
		o.BaseURL = cfg.Arcade.BaseURL
		o.APIKey = cfg.Arcade.APIKey
		o.ToolName = cfg.Arcade.ToolName
		o.UserID = cfg.Arcade.UserID
	})

	deps := pipeline.Deps{
		Vision:    vision,
		Searcher:  searcher,
		Generator: openaiCap,
		Fetcher:   imagefetch.New(),
		Artifacts: artifacts,
	}

	reg := registry.New(deps, func(o *registry.Options) {
		o.SessionTTL = cfg.Pipeline.SessionTTL
		o.Logger = logger
		o.PipelineOptions = []func(o *pipeline.Options){
			func(o *pipeline.Options) {
				o.PacingDelay = cfg.Pipeline.PacingDelay
				o.FetchTimeout = cfg.Pipeline.FetchTimeout
				o.Logger = logger
			},
		}
	})

	srv := server.New(reg, artifacts, func(o *server.Options) {
		o.CorsAllowedOrigins = cfg.App.CorsAllowedOrigins
		o.UploadsDir = cfg.App.UploadsDir
		o.BodyLimit = cfg.App.MaxUploadBytes
		o.Logger = logger
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		reg.Shutdown()
		if err := srv.Shutdown(); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	if err := srv.Listen(cfg.App.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
