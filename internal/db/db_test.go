//go:build integration

package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *Client
var testContainer testcontainers.Container

// surrealImage is the server the species store is tested against.
const surrealImage = "surrealdb/surrealdb:v3.0.0-beta.1"

// TestMain runs the package against a throwaway SurrealDB container.
func TestMain(m *testing.M) {
	os.Exit(runWithSurreal(m))
}

func runWithSurreal(m *testing.M) int {
	// Ryuk needs a privileged Docker socket, which CI runners lack.
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	ctx := context.Background()

	container, url, err := startSurreal(ctx)
	if err != nil {
		if container != nil {
			_ = container.Terminate(ctx)
		}
		log.Printf("start SurrealDB: %v", err)
		return 1
	}
	testContainer = container
	defer func() { _ = testContainer.Terminate(ctx) }()

	testDB, err = NewClient(ctx, Config{
		URL:       url,
		Namespace: "amorph_test",
		Database:  "species",
		Username:  "root",
		Password:  "root",
		AuthLevel: AuthRoot,
	}, nil)
	if err != nil {
		log.Printf("connect to test database: %v", err)
		return 1
	}
	defer func() { _ = testDB.Close(ctx) }()

	if err := testDB.InitSchema(ctx); err != nil {
		log.Printf("initialize schema: %v", err)
		return 1
	}
	return m.Run()
}

// startSurreal starts the container and returns its RPC url.
func startSurreal(ctx context.Context) (testcontainers.Container, string, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        surrealImage,
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return c, "", fmt.Errorf("container host: %w", err)
	}
	// Some Docker setups report the host as "null".
	if host == "" || host == "null" {
		host = "localhost"
	}
	port, err := c.MappedPort(ctx, "8000")
	if err != nil {
		return c, "", fmt.Errorf("mapped port: %w", err)
	}
	return c, fmt.Sprintf("ws://%s:%s/rpc", host, port.Port()), nil
}

func wipe(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.WipeData(context.Background()))
}

func TestUpsertAndGetSpecies(t *testing.T) {
	wipe(t)
	ctx := context.Background()

	rec := sampleRecord()
	saved, err := testDB.UpsertSpecies(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, "species:amanita-muscaria", saved.ID)
	assert.False(t, saved.Created.IsZero())

	got, err := testDB.GetSpecies(ctx, "amanita-muscaria")
	require.NoError(t, err)
	assert.Equal(t, rec.Fields, got.Fields)
	assert.Equal(t, []string{"safety"}, got.Perspectives)

	// Updating keeps the creation time.
	rec.Set("edibility", "deadly")
	updated, err := testDB.UpsertSpecies(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, saved.Created.Unix(), updated.Created.Unix())
	v, _ := updated.Get("edibility")
	assert.Equal(t, "deadly", v)
}

func TestGetSpecies_NotFound(t *testing.T) {
	wipe(t)
	_, err := testDB.GetSpecies(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetFields(t *testing.T) {
	wipe(t)
	ctx := context.Background()
	_, err := testDB.UpsertSpecies(ctx, sampleRecord())
	require.NoError(t, err)

	got, err := testDB.GetFields(ctx, "amanita-muscaria", []string{"edible", "cap_size"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cap_size", "edible"}, got.Names())
}

func TestSearchSpecies(t *testing.T) {
	wipe(t)
	ctx := context.Background()
	_, err := testDB.UpsertSpecies(ctx, sampleRecord())
	require.NoError(t, err)
	_, err = testDB.UpsertSpecies(ctx, models.Record{
		Slug: "cantharellus-cibarius",
		Name: "Golden Chanterelle",
		Fields: []models.Field{
			{Name: "habitat", Value: "mossy birch woodland"},
		},
	})
	require.NoError(t, err)

	results, err := testDB.SearchSpecies(ctx, "chanterelle", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cantharellus-cibarius", results[0].Slug)

	results, err = testDB.SearchSpecies(ctx, "birch", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	all, err := testDB.SearchSpecies(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Fly Agaric", all[0].Name)
}

func TestDeleteSpecies(t *testing.T) {
	wipe(t)
	ctx := context.Background()
	_, err := testDB.UpsertSpecies(ctx, sampleRecord())
	require.NoError(t, err)

	require.NoError(t, testDB.DeleteSpecies(ctx, "amanita-muscaria"))
	assert.ErrorIs(t, testDB.DeleteSpecies(ctx, "amanita-muscaria"), ErrNotFound)

	all, err := testDB.ListSpecies(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPingAndCount(t *testing.T) {
	wipe(t)
	ctx := context.Background()
	require.NoError(t, testDB.Ping(ctx))

	n, err := testDB.CountSpecies(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = testDB.UpsertSpecies(ctx, sampleRecord())
	require.NoError(t, err)
	n, err = testDB.CountSpecies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
