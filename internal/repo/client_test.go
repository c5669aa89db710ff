package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towtrack/backend/internal/domain"
)

func TestClientRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	got, err := r.Clients.Create(ctx, domain.Client{
		Name:      "ACME Logistics",
		Email:     "billing@acme.test",
		Phone:     "+49 30 1234567",
		Address:   "Industriestrasse 5",
		RatePerKm: domain.Money(200),
		Status:    domain.ClientActive,
		Notes:     "net 30",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "ACME Logistics", got.Name)
	assert.Equal(t, domain.Money(200), got.RatePerKm)
	assert.Equal(t, domain.ClientActive, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestClientRepo_Create_DuplicateName(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	createClient(t, r, "ACME Logistics", domain.Money(150))

	_, err := r.Clients.Create(ctx, domain.Client{
		Name:      "ACME Logistics",
		RatePerKm: domain.Money(175),
		Status:    domain.ClientActive,
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestClientRepo_GetByID(t *testing.T) {
	r := newTestRepos(t)
	created := createClient(t, r, "ACME Logistics", domain.Money(150))

	got, err := r.Clients.GetByID(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
}

func TestClientRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.Clients.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientRepo_List(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	createClient(t, r, "Beta Haulage", domain.Money(150))
	createClient(t, r, "Alpha Trucks", domain.Money(150))

	inactive := domain.Client{Name: "Gone Freight", RatePerKm: domain.Money(150), Status: domain.ClientInactive}
	_, err := r.Clients.Create(ctx, inactive)
	require.NoError(t, err)

	t.Run("all, ordered by name", func(t *testing.T) {
		clients, err := r.Clients.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, clients, 3)
		assert.Equal(t, "Alpha Trucks", clients[0].Name)
		assert.Equal(t, "Beta Haulage", clients[1].Name)
		assert.Equal(t, "Gone Freight", clients[2].Name)
	})

	t.Run("active only", func(t *testing.T) {
		active := domain.ClientActive
		clients, err := r.Clients.List(ctx, &active)
		require.NoError(t, err)
		assert.Len(t, clients, 2)
	})

	t.Run("inactive only", func(t *testing.T) {
		st := domain.ClientInactive
		clients, err := r.Clients.List(ctx, &st)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "Gone Freight", clients[0].Name)
	})
}

func TestClientRepo_Update(t *testing.T) {
	r := newTestRepos(t)
	created := createClient(t, r, "ACME Logistics", domain.Money(150))

	created.RatePerKm = domain.Money(225)
	created.Status = domain.ClientInactive

	got, err := r.Clients.Update(context.Background(), created)

	require.NoError(t, err)
	assert.Equal(t, domain.Money(225), got.RatePerKm)
	assert.Equal(t, domain.ClientInactive, got.Status)
}

func TestClientRepo_Update_NotFound(t *testing.T) {
	r := newTestRepos(t)

	ghost := domain.Client{ID: uuid.New(), Name: "Ghost", RatePerKm: 100, Status: domain.ClientActive}
	_, err := r.Clients.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientRepo_Delete(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	created := createClient(t, r, "ACME Logistics", domain.Money(150))

	require.NoError(t, r.Clients.Delete(ctx, created.ID))

	_, err := r.Clients.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientRepo_Delete_NotFound(t *testing.T) {
	r := newTestRepos(t)

	err := r.Clients.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestClientRepo_Delete_ReferencedByTrip exercises the database-level FK
// backstop behind the service-level guard.
func TestClientRepo_Delete_ReferencedByTrip(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	driver := createDriver(t, r, "dana@towtrack.test")
	client := createClient(t, r, "ACME Logistics", domain.Money(150))

	trip := tripFixture(driver.ID)
	trip.ClientID = &client.ID
	_, err := r.Trips.Create(ctx, trip)
	require.NoError(t, err)

	err = r.Clients.Delete(ctx, client.ID)

	assert.ErrorIs(t, err, domain.ErrConflict)
}
