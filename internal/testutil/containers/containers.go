//go:build integration

// Package containers starts the backing services used by integration tests.
package containers

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDB   = "livefeed_test"
	testUser = "livefeed"
	testPass = "livefeed"
)

// RabbitMQ returns an amqp URL for a fresh broker.
func RabbitMQ(t require.TestingT, ctx context.Context) (string, func()) {
	host, port, cleanup := start(t, ctx, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.12-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(2 * time.Minute),
	}, "5672/tcp")
	return "amqp://guest:guest@" + host + ":" + port + "/", cleanup
}

// Redis returns a redis:// URL for database 0.
func Redis(t require.TestingT, ctx context.Context) (string, func()) {
	host, port, cleanup := start(t, ctx, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
	}, "6379/tcp")
	return "redis://" + host + ":" + port + "/0", cleanup
}

// Postgres returns a DSN for an empty database. Postgres logs the ready line
// twice: once for the init run and once for the real server.
func Postgres(t require.TestingT, ctx context.Context) (string, func()) {
	host, port, cleanup := start(t, ctx, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPass,
			"POSTGRES_DB":       testDB,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(2 * time.Minute),
	}, "5432/tcp")
	return "postgres://" + testUser + ":" + testPass + "@" + host + ":" + port + "/" + testDB + "?sslmode=disable", cleanup
}

// MySQL returns a DSN for a database with schemaPath already applied.
func MySQL(t require.TestingT, ctx context.Context, schemaPath string) (string, func()) {
	container, err := mysql.RunContainer(
		ctx,
		mysql.WithDatabase(testDB),
		mysql.WithUsername(testUser),
		mysql.WithPassword(testPass),
	)
	require.NoError(t, err)
	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port("3306/tcp"))
	require.NoError(t, err)

	dsn := testUser + ":" + testPass + "@tcp(" + host + ":" + port.Port() + ")/" + testDB + "?parseTime=true&loc=UTC&multiStatements=true"

	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err)
	dbConn, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer dbConn.Close()
	_, err = dbConn.ExecContext(ctx, string(schema))
	require.NoError(t, err)

	return dsn, cleanup
}

func start(t require.TestingT, ctx context.Context, req testcontainers.ContainerRequest, exposed nat.Port) (string, string, func()) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, exposed)
	require.NoError(t, err)
	return host, port.Port(), cleanup
}
