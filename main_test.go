package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"storefront/internal/database/dbtest"
	"storefront/internal/events"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "worker", "migrate", "seed", "reindex", "hash-admin-key", "dev-token"} {
		assert.True(t, names[want], want)
	}
}

func TestHashAdminKeyCommand(t *testing.T) {
	out, err := execute(t, "hash-admin-key", "letmein")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(out), []byte("letmein")))

	_, err = execute(t, "hash-admin-key")
	assert.Error(t, err)
}

func TestDevTokenCommand(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "dev-secret")
	t.Setenv("IDENTITY_JWT_ISSUER", "https://id.local")
	t.Setenv("LOG_LEVEL", "error")

	token, err := execute(t, "dev-token", "user_dev", "--ttl", "5m")
	require.NoError(t, err)

	identity, err := services.NewIdentityService("dev-secret", "", "https://id.local")
	require.NoError(t, err)
	userID, err := identity.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_dev", userID)
}

func TestDevTokenNeedsSecret(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "error")
	_, err := execute(t, "dev-token", "user_dev")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	products := services.NewProductService(repositories.NewGORMProductRepository(db), nil, events.Nop{})
	sections := services.NewSectionService(repositories.NewGORMSectionRepository(db), nil, 0)

	created, err := seed(ctx, products, sections)
	require.NoError(t, err)
	assert.Equal(t, len(sampleProducts)+len(sampleSections), created)

	n, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleProducts)), n)

	// every category gets at least one product with readable metadata
	for _, sp := range sampleProducts {
		page, err := products.FindAll(ctx, sp.category, 1, 10)
		require.NoError(t, err)
		require.NotEmpty(t, page, sp.category)
		assert.NotNil(t, page[0].Metadata, sp.category)
	}

	all, err := sections.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(sampleSections))
}

func TestWorkerNeedsBroker(t *testing.T) {
	t.Setenv("EVENTS_DRIVER", "none")
	t.Setenv("LOG_LEVEL", "error")
	err := runWorker(context.Background(), bootConfig(), workerOptions{})
	assert.Error(t, err)
}
