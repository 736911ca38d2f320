// Package testcontainers starts throwaway Postgres and Redis containers for
// integration tests. Tests are skipped in -short mode or when no Docker
// provider is reachable; containers are terminated through t.Cleanup.
package testcontainers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	startupTimeout = 60 * time.Second

	postgresPort     = "5432"
	postgresUser     = "test"
	postgresPassword = "test"
	postgresDatabase = "registration"

	redisPort = "6379"
)

func skipUnlessDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	tc.SkipIfProviderIsNotHealthy(t)
}

func start(t *testing.T, req tc.ContainerRequest) tc.Container {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("terminate %s: %v", req.Image, err)
		}
	})
	return container
}

// Postgres starts an empty database and returns its DSN.
func Postgres(t *testing.T) string {
	t.Helper()
	skipUnlessDocker(t)

	container := start(t, tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{postgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
		},
		// the server restarts once after initdb
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort+"/tcp"),
		),
	})

	ctx := context.Background()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, host, port.Port(), postgresDatabase)
}

// Redis starts a Redis server and returns a connected client.
func Redis(t *testing.T) *redis.Client {
	t.Helper()
	skipUnlessDocker(t)

	container := start(t, tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{redisPort + "/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})

	ctx := context.Background()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, redisPort)
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
