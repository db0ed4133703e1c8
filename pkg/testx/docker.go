// Package testx starts throwaway Postgres and Redis containers for
// integration tests. Tests using it carry the "integration" build tag.
package testx

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/vieclam/migrations"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const containerTTL = 300 // seconds

// Env holds the containers of one test package
type Env struct {
	pool      *dockertest.Pool
	resources []*dockertest.Resource
}

// NewEnv connects to the local Docker daemon
func NewEnv() (*Env, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("connect to docker: %w", err)
	}
	pool.MaxWait = 90 * time.Second
	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("ping docker: %w", err)
	}
	return &Env{pool: pool}, nil
}

func (e *Env) run(opts *dockertest.RunOptions) (*dockertest.Resource, error) {
	resource, err := e.pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Repository, err)
	}
	_ = resource.Expire(containerTTL)
	e.resources = append(e.resources, resource)
	return resource, nil
}

// Postgres starts Postgres, waits for it and applies the migrations
func (e *Env) Postgres(ctx context.Context) (*sqlx.DB, error) {
	resource, err := e.run(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=vieclam",
			"POSTGRES_PASSWORD=vieclam",
			"POSTGRES_DB=vieclam_test",
			"listen_addresses='*'",
		},
	})
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("postgres://vieclam:vieclam@%s/vieclam_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	var db *sqlx.DB
	err = e.pool.Retry(func() error {
		var err error
		db, err = sqlx.Open("postgres", dsn)
		if err != nil {
			return err
		}
		return db.PingContext(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("wait for postgres: %w", err)
	}

	if err := migrations.Apply(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// Redis starts Redis and waits for it
func (e *Env) Redis(ctx context.Context) (*redis.Client, error) {
	resource, err := e.run(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"})
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort("6379/tcp")})
	if err := e.pool.Retry(func() error { return client.Ping(ctx).Err() }); err != nil {
		return nil, fmt.Errorf("wait for redis: %w", err)
	}
	return client, nil
}

// Close removes every started container
func (e *Env) Close() {
	for _, r := range e.resources {
		_ = e.pool.Purge(r)
	}
}

// Truncate empties the given tables between tests
func Truncate(ctx context.Context, db *sqlx.DB, tables ...string) error {
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, "TRUNCATE "+t+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", t, err)
		}
	}
	return nil
}
