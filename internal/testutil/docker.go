//go:build integration

package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tasklist-api/internal/repository"
	"tasklist-api/pkg/database"
)

func newPool(t testing.TB) *dockertest.Pool {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not construct docker pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	pool.MaxWait = 2 * time.Minute
	return pool
}

func run(t testing.TB, pool *dockertest.Pool, opts *dockertest.RunOptions) *dockertest.Resource {
	t.Helper()
	resource, err := pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start %s: %v", opts.Repository, err)
	}
	_ = resource.Expire(300)
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge %s: %v", opts.Repository, err)
		}
	})
	return resource
}

// NewPostgres starts a throwaway Postgres container and returns a connected
// store with the schema applied.
func NewPostgres(t testing.TB) *database.DB {
	t.Helper()
	pool := newPool(t)
	resource := run(t, pool, &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=app",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=tasks",
		},
	})

	dsn := fmt.Sprintf("postgres://app:secret@%s/tasks?sslmode=disable", resource.GetHostPort("5432/tcp"))
	var db *database.DB
	if err := pool.Retry(func() error {
		var err error
		db, err = database.Connect(context.Background(), dsn)
		return err
	}); err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repository.CreateTableIfNotExists(context.Background(), db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

// NewRedis starts a throwaway Redis container.
func NewRedis(t testing.TB) *redis.Client {
	t.Helper()
	pool := newPool(t)
	resource := run(t, pool, &dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"})

	var client *redis.Client
	if err := pool.Retry(func() error {
		var err error
		client, err = database.ConnectRedis(context.Background(), resource.GetHostPort("6379/tcp"), "")
		return err
	}); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}
