// Package testenv provides PostgreSQL and SurrealDB instances for integration
// tests.
//
// When the corresponding environment variable is set the running instance it
// names is used; otherwise a disposable container is started with
// testcontainers and terminated when the test finishes.
package testenv

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// EnvPostgresURL names an existing PostgreSQL instance to test against.
	EnvPostgresURL = "CONNECTIONSTRING"

	// EnvSurrealDBURL names an existing SurrealDB instance to test against.
	EnvSurrealDBURL = "SURREALDB_URL"

	postgresImage  = "postgres:17.5-alpine"
	surrealDBImage = "surrealdb/surrealdb:v2.3.7"

	postgresPassword = "postgres"

	// SurrealDBUser and SurrealDBPass are the root credentials of the
	// started SurrealDB container.
	SurrealDBUser = "root"
	SurrealDBPass = "root"
)

// PostgresDSN returns the DSN of a PostgreSQL instance.
func PostgresDSN(t testing.TB) string {
	t.Helper()
	if dsn := os.Getenv(EnvPostgresURL); dsn != "" {
		return dsn
	}

	ctx := context.Background()
	c := start(t, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": postgresPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	})

	host := containerHost(t, ctx, c)
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:%s@%s:%s/postgres?sslmode=disable", postgresPassword, host, port.Port())
}

// SurrealDBURL returns the WebSocket RPC endpoint of a SurrealDB instance.
func SurrealDBURL(t testing.TB) string {
	t.Helper()
	if u := os.Getenv(EnvSurrealDBURL); u != "" {
		return u
	}

	ctx := context.Background()
	c := start(t, testcontainers.ContainerRequest{
		Image:        surrealDBImage,
		ExposedPorts: []string{"8000/tcp"},
		Cmd:          []string{"start", "--user", SurrealDBUser, "--pass", SurrealDBPass, "memory"},
		WaitingFor:   wait.ForListeningPort("8000/tcp"),
	})

	host := containerHost(t, ctx, c)
	port, err := c.MappedPort(ctx, "8000")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return fmt.Sprintf("ws://%s:%s/rpc", host, port.Port())
}

func start(t testing.TB, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()
	c, err := testcontainers.GenericContainer(context.Background(), testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate %s: %v", req.Image, err)
		}
	})
	return c
}

func containerHost(t testing.TB, ctx context.Context, c testcontainers.Container) string {
	t.Helper()
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	return h
}
