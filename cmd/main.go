package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/vieclam/migrations"
	"github.com/Abraxas-365/vieclam/pkg/config"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "vieclam",
		Usage: "Vietnamese job board API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and the job expiry sweeper",
				Flags:  []cli.Flag{envFlag()},
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Flags:  []cli.Flag{envFlag()},
				Action: migrateAction,
			},
			{
				Name:   "expire-jobs",
				Usage:  "Expire published jobs past their deadline once",
				Flags:  []cli.Flag{envFlag()},
				Action: expireJobsAction,
			},
			{
				Name:  "token",
				Usage: "Issue an access token for local testing",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{Name: "user", Usage: "user ID", Required: true},
					&cli.StringFlag{Name: "email", Usage: "user email"},
					&cli.StringFlag{Name: "role", Usage: "candidate, employer or admin", Value: string(kernel.RoleCandidate)},
				},
				Action: tokenAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logx.Fatalf("%v", err)
	}
}

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "path to an env file",
		Value: ".env",
	}
}

// loadConfig reads configuration and applies the logging settings
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return nil, err
	}
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))
	if cfg.LogJSON {
		logx.UseJSON()
	}
	return cfg, nil
}

func openContainer(ctx context.Context, cmd *cli.Command) (*Container, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return NewContainer(ctx, cfg)
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	container, err := openContainer(ctx, cmd)
	if err != nil {
		return err
	}
	defer container.Close()

	logx.Info("Starting Vieclam API Server...")
	return serve(ctx, container)
}

func migrateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := connectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrations.Apply(ctx, db)
}

func expireJobsAction(ctx context.Context, cmd *cli.Command) error {
	container, err := openContainer(ctx, cmd)
	if err != nil {
		return err
	}
	defer container.Close()

	n, err := container.JobService.ExpireDueJobs(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("expired %d jobs\n", n)
	return nil
}

func tokenAction(_ context.Context, cmd *cli.Command) error {
	role := kernel.UserRole(cmd.String("role"))
	if !role.IsValid() {
		return fmt.Errorf("unknown role %q", role)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	token, err := newTokenService(cfg.JWT).GenerateAccessToken(
		kernel.UserID(cmd.String("user")), kernel.Email(cmd.String("email")), role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
