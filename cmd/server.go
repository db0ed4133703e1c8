package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/httpx"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/Abraxas-365/vieclam/recruitment/application/applicationapi"
	"github.com/Abraxas-365/vieclam/recruitment/company/companyapi"
	"github.com/Abraxas-365/vieclam/recruitment/job/jobapi"
	"github.com/Abraxas-365/vieclam/recruitment/job/jobsrv"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob/savedjobapi"
	"github.com/Abraxas-365/vieclam/recruitment/skill/skillapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 10 * time.Second

// newServer builds the fiber app with every route registered
func newServer(container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Vieclam API",
		DisableStartupMessage: true,
		ErrorHandler:          httpx.ErrorHandler,
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.PingContext(c.UserContext()) == nil,
			"redis":  container.Redis.Ping(c.UserContext()).Err() == nil,
		})
	})

	// Routes
	companyapi.RegisterRoutes(app, container.CompanyHandlers)
	skillapi.RegisterRoutes(app, container.SkillHandlers, container.AuthMiddleware)
	jobapi.RegisterRoutes(app, container.JobHandlers, container.AuthMiddleware)
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, container.AuthMiddleware)
	savedjobapi.RegisterRoutes(app, container.SavedJobHandlers, container.AuthMiddleware)

	return app
}

// serve runs the API and the expiry sweeper until ctx is cancelled
func serve(ctx context.Context, container *Container) error {
	app := newServer(container)

	sweeper := jobsrv.NewExpirySweeper(container.JobService, container.Config.Jobs.ExpirySchedule)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	errCh := make(chan error, 1)
	go func() {
		logx.Infof("Server listening on port %s", container.Config.Port)
		errCh <- app.Listen(":" + container.Config.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	logx.Info("Server exited")
	return nil
}
