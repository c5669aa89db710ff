package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/towtrack/backend/internal/domain"
)

// ClientRepo defines the persistence operations for billing clients.
type ClientRepo interface {
	// Create inserts a new client and returns the persisted record.
	// Returns domain.ErrConflict if a client with the same name exists.
	Create(ctx context.Context, client domain.Client) (domain.Client, error)

	// GetByID retrieves a single client by its UUID primary key.
	// Returns domain.ErrNotFound if no client with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error)

	// List returns clients ordered by name. A non-nil status restricts the
	// result to clients in that status.
	List(ctx context.Context, status *domain.ClientStatus) ([]domain.Client, error)

	// Update overwrites the mutable fields of an existing client.
	// Returns domain.ErrNotFound if no client with that ID exists, or
	// domain.ErrConflict if the new name collides with another client.
	Update(ctx context.Context, client domain.Client) (domain.Client, error)

	// Delete removes a client by ID. Returns domain.ErrNotFound if it does
	// not exist and domain.ErrConflict if trips still reference it — the
	// service checks first, this is the last line of defence.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgClientRepo is the Postgres implementation of ClientRepo.
type pgClientRepo struct {
	db db
}

// NewClientRepo constructs a ClientRepo backed by the provided db connection.
func NewClientRepo(db db) ClientRepo {
	return &pgClientRepo{db: db}
}

const clientColumns = `id, name, email, phone, address, rate_per_km, status,
		notes, created_at, updated_at`

// Create inserts a new client row and returns the full persisted record.
func (r *pgClientRepo) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	const q = `
		INSERT INTO clients (name, email, phone, address, rate_per_km, status, notes)
		VALUES (@name, @email, @phone, @address, @rate_per_km, @status, @notes)
		RETURNING ` + clientColumns

	row := r.db.QueryRow(ctx, q, clientArgs(client))
	result, err := scanClient(row)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

// GetByID retrieves a client by primary key.
func (r *pgClientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanClient(row)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns clients ordered by name, optionally restricted to one status.
func (r *pgClientRepo) List(ctx context.Context, status *domain.ClientStatus) ([]domain.Client, error) {
	const q = `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE (@status::text IS NULL OR status = @status)
		ORDER BY name`

	args := pgx.NamedArgs{"status": (*string)(nil)}
	if status != nil {
		s := string(*status)
		args["status"] = &s
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ClientRepo.List: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ClientRepo.List: scan: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ClientRepo.List: rows: %w", err)
	}
	return clients, nil
}

// Update overwrites the mutable fields of a client and returns the updated record.
func (r *pgClientRepo) Update(ctx context.Context, client domain.Client) (domain.Client, error) {
	const q = `
		UPDATE clients
		SET name        = @name,
		    email       = @email,
		    phone       = @phone,
		    address     = @address,
		    rate_per_km = @rate_per_km,
		    status      = @status,
		    notes       = @notes,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + clientColumns

	args := clientArgs(client)
	args["id"] = client.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanClient(row)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

// Delete removes a client by primary key.
func (r *pgClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM clients WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ClientRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// clientArgs maps the caller-settable client fields into named insert/update args.
func clientArgs(client domain.Client) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        client.Name,
		"email":       client.Email,
		"phone":       client.Phone,
		"address":     client.Address,
		"rate_per_km": int64(client.RatePerKm),
		"status":      string(client.Status),
		"notes":       client.Notes,
	}
}

// scanClient maps a single database row into a domain.Client.
func scanClient(s scanner) (domain.Client, error) {
	var (
		c    domain.Client
		id   pgtype.UUID
		rate int64
	)
	err := s.Scan(&id, &c.Name, &c.Email, &c.Phone, &c.Address, &rate,
		&c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, domain.ErrNotFound
		}
		return domain.Client{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.RatePerKm = domain.Money(rate)
	return c, nil
}

// mapPgError translates Postgres constraint violations into domain sentinels:
// unique violations (duplicate name/email) and foreign key violations
// (deleting a still-referenced client) both surface as domain.ErrConflict.
// FK violations on trip writes go through mapTripWriteError instead, where
// the same constraint means bad input rather than a blocked delete.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: record is still referenced", domain.ErrConflict)
		}
	}
	return err
}
