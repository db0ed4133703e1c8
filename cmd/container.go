package main

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/vieclam/pkg/config"
	"github.com/Abraxas-365/vieclam/pkg/iam/auth"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/Abraxas-365/vieclam/recruitment/application/applicationapi"
	"github.com/Abraxas-365/vieclam/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/vieclam/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/vieclam/recruitment/company/companyapi"
	"github.com/Abraxas-365/vieclam/recruitment/company/companyinfra"
	"github.com/Abraxas-365/vieclam/recruitment/company/companysrv"
	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/Abraxas-365/vieclam/recruitment/job/jobapi"
	"github.com/Abraxas-365/vieclam/recruitment/job/jobinfra"
	"github.com/Abraxas-365/vieclam/recruitment/job/jobsrv"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob/savedjobapi"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob/savedjobinfra"
	"github.com/Abraxas-365/vieclam/recruitment/savedjob/savedjobsrv"
	"github.com/Abraxas-365/vieclam/recruitment/skill/skillapi"
	"github.com/Abraxas-365/vieclam/recruitment/skill/skillinfra"
	"github.com/Abraxas-365/vieclam/recruitment/skill/skillsrv"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const devJWTSecret = "vieclam-dev-secret-change-me"

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client
	Cache job.Cache

	TokenService *auth.JWTService

	// Services
	CompanyService     *companysrv.CompanyService
	SkillService       *skillsrv.SkillService
	JobService         *jobsrv.JobService
	ApplicationService *applicationsrv.ApplicationService
	SavedJobService    *savedjobsrv.SavedJobService

	// API Handlers
	CompanyHandlers     *companyapi.Handlers
	SkillHandlers       *skillapi.Handlers
	JobHandlers         *jobapi.Handlers
	ApplicationHandlers *applicationapi.Handlers
	SavedJobHandlers    *savedjobapi.Handlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer connects infrastructure and wires every context
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}
	c.initServices()
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	// 1. Database Connection
	db, err := connectDB(ctx, c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = db

	// 2. Redis Connection, the listing cache degrades to a no-op without it
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		logx.Warnf("Failed to connect to Redis, job cache disabled: %v", err)
		c.Cache = jobinfra.NopCache{}
	} else {
		c.Cache = jobinfra.NewRedisJobCache(c.Redis, c.Config.Jobs.CacheTTL)
	}

	// 3. Token Service
	c.TokenService = newTokenService(c.Config.JWT)
	return nil
}

func (c *Container) initServices() {
	// --- Repositories ---
	companyRepo := companyinfra.NewPostgresCompanyRepository(c.DB)
	skillRepo := skillinfra.NewPostgresSkillRepository(c.DB)
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)
	savedJobRepo := savedjobinfra.NewPostgresSavedJobRepository(c.DB)

	// --- Domain Services ---
	c.CompanyService = companysrv.NewCompanyService(companyRepo)
	c.SkillService = skillsrv.NewSkillService(skillRepo)
	c.JobService = jobsrv.NewJobService(jobRepo, c.Cache, c.CompanyService, c.SkillService)
	c.ApplicationService = applicationsrv.NewApplicationService(applicationRepo, jobRepo, c.CompanyService)
	c.SavedJobService = savedjobsrv.NewSavedJobService(savedJobRepo, jobRepo)

	// --- Handlers ---
	c.CompanyHandlers = companyapi.NewHandlers(c.CompanyService)
	c.SkillHandlers = skillapi.NewHandlers(c.SkillService)
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
	c.SavedJobHandlers = savedjobapi.NewHandlers(c.SavedJobService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)
}

// Close releases the connections held by the container
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Warnf("Failed to close Redis: %v", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Warnf("Failed to close database: %v", err)
		}
	}
}

func newTokenService(cfg config.JWTConfig) *auth.JWTService {
	secret := cfg.SecretKey
	if secret == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		secret = devJWTSecret
	}
	return auth.NewJWTService(secret, cfg.AccessTokenTTL, cfg.Issuer)
}

func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}
