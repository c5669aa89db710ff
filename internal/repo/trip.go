// Package repo contains all database access logic for the TowTrack API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
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

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. It is also what lets TxManager
// rebind every repo to a single request-scoped transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
// Trips are never hard-deleted, so there is no Delete here.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns one page of trips matching the filter, newest trip first,
	// along with the total match count. Nil filter fields match everything.
	List(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if no trip with that ID
	// exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// CountByClient returns the number of trips referencing the given client.
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// ListReport returns flat report rows for trips matching the filter,
	// with driver and client names joined in, newest trip first.
	ListReport(ctx context.Context, f domain.TripFilter) ([]domain.TripReportRow, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns is the canonical SELECT column list, kept in sync with scanTrip.
const tripColumns = `id, driver_id, client_id, client_name, vehicle, cargo,
		license_plate, distance_km, duration_min, pickup, dropoff, out_of_town,
		winch_used, payment_type, cash_amount, extra_cost, extra_cost_note,
		trip_at, notes, admin_notes, cost, status, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (driver_id, client_id, client_name, vehicle, cargo,
			license_plate, distance_km, duration_min, pickup, dropoff,
			out_of_town, winch_used, payment_type, cash_amount, extra_cost,
			extra_cost_note, trip_at, notes, cost, status)
		VALUES (@driver_id, @client_id, @client_name, @vehicle, @cargo,
			@license_plate, @distance_km, @duration_min, @pickup, @dropoff,
			@out_of_town, @winch_used, @payment_type, @cash_amount, @extra_cost,
			@extra_cost_note, @trip_at, @notes, @cost, @status)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapTripWriteError(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// tripFilterWhere is the AND-combined predicate shared by List, its count
// query, and ListReport. Each clause collapses to TRUE when its parameter is
// NULL, so nil filter fields match everything.
const tripFilterWhere = `
		  (@driver_id::uuid IS NULL OR t.driver_id = @driver_id)
		AND (@client_id::uuid IS NULL OR t.client_id = @client_id)
		AND (@status::text IS NULL OR t.status = @status)
		AND (@start_date::timestamptz IS NULL OR t.trip_at >= @start_date)
		AND (@end_date::timestamptz IS NULL OR t.trip_at <= @end_date)
		AND (@min_distance::bigint IS NULL OR t.distance_km >= @min_distance)
		AND (@max_distance::bigint IS NULL OR t.distance_km <= @max_distance)`

// filterArgs maps a TripFilter into the named arguments of tripFilterWhere.
func filterArgs(f domain.TripFilter) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"driver_id":    f.DriverID,
		"client_id":    f.ClientID,
		"start_date":   f.StartDate,
		"end_date":     f.EndDate,
		"min_distance": f.MinDistance,
		"max_distance": f.MaxDistance,
		"status":       (*string)(nil),
	}
	if f.Status != nil {
		s := string(*f.Status)
		args["status"] = &s
	}
	return args
}

// List returns one page of trips matching the filter plus the total count.
func (r *pgTripRepo) List(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	countQ := `SELECT count(*) FROM trips t WHERE ` + tripFilterWhere

	var total int64
	if err := r.db.QueryRow(ctx, countQ, filterArgs(f)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: count: %w", err)
	}

	listQ := `SELECT ` + tripColumns + ` FROM trips t WHERE ` + tripFilterWhere + `
		ORDER BY trip_at DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	args := filterArgs(f)
	args["limit"] = p.Limit
	args["offset"] = p.Offset()

	rows, err := r.db.Query(ctx, listQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET client_id       = @client_id,
		    client_name     = @client_name,
		    vehicle         = @vehicle,
		    cargo           = @cargo,
		    license_plate   = @license_plate,
		    distance_km     = @distance_km,
		    duration_min    = @duration_min,
		    pickup          = @pickup,
		    dropoff         = @dropoff,
		    out_of_town     = @out_of_town,
		    winch_used      = @winch_used,
		    payment_type    = @payment_type,
		    cash_amount     = @cash_amount,
		    extra_cost      = @extra_cost,
		    extra_cost_note = @extra_cost_note,
		    trip_at         = @trip_at,
		    notes           = @notes,
		    admin_notes     = @admin_notes,
		    cost            = @cost,
		    status          = @status,
		    updated_at      = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID
	args["admin_notes"] = trip.AdminNotes

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapTripWriteError(err))
	}
	return result, nil
}

// CountByClient returns how many trips reference the given client.
func (r *pgTripRepo) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM trips WHERE client_id = @client_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"client_id": clientID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.CountByClient: %w", err)
	}
	return n, nil
}

// ListReport returns flat report rows with driver and client names joined in.
// The linked client's name wins over the manual free-text name when both exist.
func (r *pgTripRepo) ListReport(ctx context.Context, f domain.TripFilter) ([]domain.TripReportRow, error) {
	listQ := `
		SELECT t.id, t.trip_at,
		       trim(u.first_name || ' ' || u.last_name),
		       coalesce(c.name, t.client_name),
		       t.vehicle, t.license_plate, t.pickup, t.dropoff, t.distance_km,
		       t.cost, t.cash_amount, t.extra_cost, t.status, t.notes, t.admin_notes
		FROM trips t
		JOIN users u ON u.id = t.driver_id
		LEFT JOIN clients c ON c.id = t.client_id
		WHERE ` + tripFilterWhere + `
		ORDER BY t.trip_at DESC, t.created_at DESC`

	rows, err := r.db.Query(ctx, listQ, filterArgs(f))
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListReport: %w", err)
	}
	defer rows.Close()

	report := []domain.TripReportRow{}
	for rows.Next() {
		var (
			row        domain.TripReportRow
			id         pgtype.UUID
			cost       pgtype.Int8
			cashAmount pgtype.Int8
			extraCost  pgtype.Int8
		)
		err := rows.Scan(&id, &row.TripAt, &row.DriverName, &row.ClientName,
			&row.Vehicle, &row.LicensePlate, &row.Pickup, &row.Dropoff,
			&row.DistanceKm, &cost, &cashAmount, &extraCost, &row.Status,
			&row.Notes, &row.AdminNotes)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListReport: scan: %w", err)
		}
		row.TripID = uuid.UUID(id.Bytes)
		row.Cost = moneyPtr(cost)
		row.CashAmount = moneyPtr(cashAmount)
		row.ExtraCost = moneyPtr(extraCost)
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListReport: rows: %w", err)
	}
	return report, nil
}

// tripArgs maps the caller-settable trip fields into named insert/update args.
func tripArgs(trip domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"driver_id":       trip.DriverID,
		"client_id":       trip.ClientID, // nil becomes NULL
		"client_name":     trip.ClientName,
		"vehicle":         trip.Vehicle,
		"cargo":           trip.Cargo,
		"license_plate":   trip.LicensePlate,
		"distance_km":     int64(trip.DistanceKm),
		"duration_min":    trip.DurationMin,
		"pickup":          trip.Pickup,
		"dropoff":         trip.Dropoff,
		"out_of_town":     trip.OutOfTown,
		"winch_used":      trip.WinchUsed,
		"payment_type":    string(trip.PaymentType),
		"cash_amount":     (*int64)(trip.CashAmount),
		"extra_cost":      (*int64)(trip.ExtraCost),
		"extra_cost_note": trip.ExtraCostNote,
		"trip_at":         trip.TripAt,
		"notes":           trip.Notes,
		"cost":            (*int64)(trip.Cost),
		"status":          string(trip.Status),
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// Nullable columns go through pgtype so NULL maps cleanly to nil pointers.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		id         pgtype.UUID
		clientID   pgtype.UUID
		distance   int64
		duration   pgtype.Int4
		cashAmount pgtype.Int8
		extraCost  pgtype.Int8
		cost       pgtype.Int8
	)

	err := s.Scan(&id, &t.DriverID, &clientID, &t.ClientName, &t.Vehicle,
		&t.Cargo, &t.LicensePlate, &distance, &duration, &t.Pickup, &t.Dropoff,
		&t.OutOfTown, &t.WinchUsed, &t.PaymentType, &cashAmount, &extraCost,
		&t.ExtraCostNote, &t.TripAt, &t.Notes, &t.AdminNotes, &cost, &t.Status,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if clientID.Valid {
		cid := uuid.UUID(clientID.Bytes)
		t.ClientID = &cid
	}
	t.DistanceKm = domain.Kilometers(distance)
	if duration.Valid {
		d := int(duration.Int32)
		t.DurationMin = &d
	}
	t.CashAmount = moneyPtr(cashAmount)
	t.ExtraCost = moneyPtr(extraCost)
	t.Cost = moneyPtr(cost)

	return t, nil
}

// mapTripWriteError translates constraint violations on trip inserts and
// updates into domain sentinels. An FK violation here means the payload named
// a client (or driver) that does not exist, which is bad input — unlike the
// delete path, where the same trips_client_id_fkey constraint blocks removing
// a still-referenced client and maps to a conflict in mapPgError.
func mapTripWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
		if pgErr.ConstraintName == "trips_client_id_fkey" {
			return fmt.Errorf("%w: unknown client", domain.ErrValidation)
		}
		return fmt.Errorf("%w: unknown driver", domain.ErrValidation)
	}
	return mapPgError(err)
}

// moneyPtr converts a nullable bigint cents column into a *domain.Money.
func moneyPtr(v pgtype.Int8) *domain.Money {
	if !v.Valid {
		return nil
	}
	m := domain.Money(v.Int64)
	return &m
}
