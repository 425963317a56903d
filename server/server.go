// Package server exposes the design pipeline over HTTP. The handlers are a
// thin mapping onto the registry; no design policy lives here.
package server

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hupe1980/designmesh/core"
	"github.com/hupe1980/designmesh/logging"
	"github.com/hupe1980/designmesh/registry"
)

// Options configure the HTTP server.
type Options struct {
	// CorsAllowedOrigins is passed to the CORS middleware.
	CorsAllowedOrigins string
	// UploadsDir is served under /uploads for browser access to artifacts.
	UploadsDir string
	// BodyLimit bounds upload sizes.
	BodyLimit int
	// Logger receives request-level diagnostics.
	Logger logging.Logger
}

// Server wires the fiber app to the session registry and artifact store.
type Server struct {
	app       *fiber.App
	registry  *registry.Registry
	artifacts core.ArtifactStore
	logger    logging.Logger
}

// New constructs the server and registers all routes.
func New(reg *registry.Registry, artifacts core.ArtifactStore, optFns ...func(o *Options)) *Server {
	opts := Options{
		CorsAllowedOrigins: "*",
		UploadsDir:         "uploads",
		BodyLimit:          10 * 1024 * 1024,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: opts.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	app.Static("/uploads", "./"+opts.UploadsDir)

	s := &Server{app: app, registry: reg, artifacts: artifacts, logger: opts.Logger}
	s.registerRoutes()
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on the given port until the app is shut down.
func (s *Server) Listen(port string) error {
	s.logger.Info("server listening", "port", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully stops the fiber app.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) registerRoutes() {
	s.app.Get("/", s.root)

	api := s.app.Group("/api")
	api.Get("/health", s.health)
	api.Post("/upload", s.uploadRoomImage)

	agent := api.Group("/agent")
	agent.Post("/start/:session", s.startAgent)
	agent.Get("/status/:session", s.agentStatus)
	agent.Get("/plan/:session", s.designPlan)
	agent.Get("/results/:session", s.designResults)

	api.Delete("/agent/:session", s.stopAgent)
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Interior Design Agent API",
		"status":  "running",
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "Interior Design Agent API",
		"version":   "1.0.0",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// uploadRoomImage accepts a multipart room photo, assigns it a fresh session
// id and persists it through the artifact store.
func (s *Server) uploadRoomImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Image file is required")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errorJSON(c, fiber.StatusBadRequest, "File must be an image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	// client filenames become part of the on-disk artifact name
	filename := filepath.Base(fileHeader.Filename)

	sessionID := core.NewID()
	if err := s.artifacts.Save(sessionID, filename, data); err != nil {
		s.logger.Error("upload save failed", "session_id", sessionID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"session_id": sessionID,
		"file_path":  "/uploads/" + sessionID + "_" + filename,
		"filename":   filename,
	})
}

// startAgent kicks off the pipeline for an uploaded session. The room image
// is whatever artifact the upload stored under the session.
func (s *Server) startAgent(c *fiber.Ctx) error {
	sessionID := c.Params("session")

	artifactIDs, err := s.artifacts.List(sessionID)
	if err != nil || len(artifactIDs) == 0 {
		return errorJSON(c, fiber.StatusNotFound, "No uploaded image found for this session")
	}

	if err := s.registry.Start(context.Background(), sessionID, artifactIDs[0]); err != nil {
		if errors.Is(err, registry.ErrAlreadyRunning) {
			return errorJSON(c, fiber.StatusConflict, "Agent already running for this session")
		}
		s.logger.Error("agent start failed", "session_id", sessionID, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Agent started successfully",
		"session_id": sessionID,
	})
}

func (s *Server) agentStatus(c *fiber.Ctx) error {
	progress, err := s.registry.Status(c.Params("session"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Agent not found for this session")
	}
	return c.JSON(progress)
}

func (s *Server) designPlan(c *fiber.Ctx) error {
	view, err := s.registry.Plan(c.Params("session"))
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Agent not found for this session")
	}
	return c.JSON(view)
}

func (s *Server) designResults(c *fiber.Ctx) error {
	sessionID := c.Params("session")
	results, err := s.registry.Results(sessionID)
	if err != nil {
		if errors.Is(err, registry.ErrNotCompleted) {
			status, _ := s.registry.Status(sessionID)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Design not yet completed",
				"status": status.Status,
			})
		}
		return errorJSON(c, fiber.StatusNotFound, "Agent not found for this session")
	}
	return c.JSON(results)
}

func (s *Server) stopAgent(c *fiber.Ctx) error {
	sessionID := c.Params("session")
	if err := s.registry.Stop(sessionID); err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Agent not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Agent stopped and cleaned up",
	})
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
