package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/db"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/dberrors"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

var tripColumns = []string{
	"id", "user_id", "title", "description", "start_date", "end_date", "budget", "actual_cost",
	"status", "transport_mode", "trip_type", "participant_count", "visibility", "created_at", "updated_at",
}

// stopTable describes where the stops of one kind are stored
type stopTable struct {
	name      string
	target    string
	uniqueKey string
}

var stopTables = map[models.StopKind]stopTable{
	models.StopDestination: {
		name:      "trip_destinations",
		target:    "destination_id",
		uniqueKey: "trip_destinations_trip_destination_key",
	},
	models.StopEvent: {
		name:      "trip_events",
		target:    "event_id",
		uniqueKey: "trip_events_trip_event_key",
	},
}

func stopTableFor(kind models.StopKind) (stopTable, error) {
	t, ok := stopTables[kind]
	if !ok {
		return stopTable{}, apperrors.InvalidArgument("unknown stop kind %q", kind)
	}
	return t, nil
}

// TripRepository handles database operations for trips and their stops
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var t models.Trip
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.StartDate, &t.EndDate, &t.Budget,
		&t.ActualCost, &t.Status, &t.TransportMode, &t.TripType, &t.ParticipantCount, &t.Visibility,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a trip and fills in the generated fields
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	sql, args, err := psql.Insert("trips").
		Columns("user_id", "title", "description", "start_date", "end_date", "budget", "actual_cost",
			"status", "transport_mode", "trip_type", "participant_count", "visibility").
		Values(trip.UserID, trip.Title, trip.Description, trip.StartDate, trip.EndDate, trip.Budget, trip.ActualCost,
			trip.Status, trip.TransportMode, trip.TripType, trip.ParticipantCount, trip.Visibility).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create trip query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("userID", trip.UserID).Msg("Error creating trip")
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip without its stops
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	sql, args, err := psql.Select(tripColumns...).From("trips").Where(eq("id", id)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get trip query: %w", err)
	}

	trip, err := scanTrip(db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("trip %d not found", id)
		}
		logger.Error().Err(err).Int64("tripID", id).Msg("Error retrieving trip")
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// LockForUpdate serializes stop ordering changes on one trip. It only has an
// effect inside a transaction.
func (r *TripRepository) LockForUpdate(ctx context.Context, tripID int64) error {
	var id int64
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT id FROM trips WHERE id = $1 FOR UPDATE`, tripID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("trip %d not found", tripID)
		}
		logger.Error().Err(err).Int64("tripID", tripID).Msg("Error locking trip")
		return fmt.Errorf("failed to lock trip: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a trip
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip) error {
	sql, args, err := psql.Update("trips").
		SetMap(map[string]interface{}{
			"title":             trip.Title,
			"description":       trip.Description,
			"start_date":        trip.StartDate,
			"end_date":          trip.EndDate,
			"budget":            trip.Budget,
			"actual_cost":       trip.ActualCost,
			"transport_mode":    trip.TransportMode,
			"trip_type":         trip.TripType,
			"participant_count": trip.ParticipantCount,
			"visibility":        trip.Visibility,
			"updated_at":        squirrel.Expr("NOW()"),
		}).
		Where(eq("id", trip.ID)).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update trip query: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&trip.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("trip %d not found", trip.ID)
		}
		logger.Error().Err(err).Int64("tripID", trip.ID).Msg("Error updating trip")
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

// UpdateStatus stores a new lifecycle status
func (r *TripRepository) UpdateStatus(ctx context.Context, id int64, status models.TripStatus) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE trips SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", id).Msg("Error updating trip status")
		return fmt.Errorf("failed to update trip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("trip %d not found", id)
	}
	return nil
}

// Delete removes a trip; its stops, shares and comments cascade
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", id).Msg("Error deleting trip")
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("trip %d not found", id)
	}
	return nil
}

// ListByUser pages through a user's trips, newest first. An empty status lists all.
func (r *TripRepository) ListByUser(ctx context.Context, userID int64, status models.TripStatus, page, limit int) ([]*models.Trip, int64, error) {
	where := squirrel.And{eq("user_id", userID)}
	if status != "" {
		where = append(where, eq("status", status))
	}
	conn := db.Conn(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("trips").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count trips query: %w", err)
	}
	var total int64
	if err := conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	offset, size := pageBounds(page, limit)
	sql, args, err := psql.Select(tripColumns...).
		From("trips").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(size).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list trips query: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error listing trips")
		return nil, 0, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []*models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

const stopColumns = `s.trip_id, s.visit_order, s.estimated_duration, s.actual_duration, s.visit_date,
	s.start_time, s.notes, s.is_completed, s.created_at`

// ListStops returns the stops of both kinds, each with a summary of its target,
// merged in visit order
func (r *TripRepository) ListStops(ctx context.Context, tripID int64) ([]*models.TripStop, error) {
	conn := db.Conn(ctx, r.pool)
	stops := []*models.TripStop{}

	rows, err := conn.Query(ctx, `
		SELECT `+stopColumns+`, d.id, d.name, d.address, d.latitude, d.longitude,
		       d.average_cost, d.rating, d.total_reviews, d.recommended_duration
		FROM trip_destinations s
		JOIN destinations d ON d.id = s.destination_id
		WHERE s.trip_id = $1`, tripID)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", tripID).Msg("Error listing trip destinations")
		return nil, fmt.Errorf("failed to list trip destinations: %w", err)
	}
	for rows.Next() {
		s := &models.TripStop{Kind: models.StopDestination}
		d := &models.Destination{}
		if err := rows.Scan(&s.TripID, &s.VisitOrder, &s.EstimatedDuration, &s.ActualDuration, &s.VisitDate,
			&s.StartTime, &s.Notes, &s.IsCompleted, &s.CreatedAt,
			&d.ID, &d.Name, &d.Address, &d.Latitude, &d.Longitude,
			&d.AverageCost, &d.Rating, &d.TotalReviews, &d.RecommendedDuration); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trip destination: %w", err)
		}
		s.TargetID, s.Destination = d.ID, d
		stops = append(stops, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = conn.Query(ctx, `
		SELECT `+stopColumns+`, e.id, e.name, e.address, e.latitude, e.longitude,
		       e.event_start, e.event_end, e.event_ticket_price, e.rating, e.total_reviews
		FROM trip_events s
		JOIN events e ON e.id = s.event_id
		WHERE s.trip_id = $1`, tripID)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", tripID).Msg("Error listing trip events")
		return nil, fmt.Errorf("failed to list trip events: %w", err)
	}
	for rows.Next() {
		s := &models.TripStop{Kind: models.StopEvent}
		e := &models.Event{}
		if err := rows.Scan(&s.TripID, &s.VisitOrder, &s.EstimatedDuration, &s.ActualDuration, &s.VisitDate,
			&s.StartTime, &s.Notes, &s.IsCompleted, &s.CreatedAt,
			&e.ID, &e.Name, &e.Address, &e.Latitude, &e.Longitude,
			&e.EventStart, &e.EventEnd, &e.TicketPrice, &e.Rating, &e.TotalReviews); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trip event: %w", err)
		}
		s.TargetID, s.Event = e.ID, e
		stops = append(stops, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	models.SortStops(stops)
	return stops, nil
}

// GetStop retrieves one stop of a trip
func (r *TripRepository) GetStop(ctx context.Context, tripID int64, kind models.StopKind, targetID int64) (*models.TripStop, error) {
	t, err := stopTableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s s WHERE s.trip_id = $1 AND s.%s = $2`, stopColumns, t.name, t.target)
	s := &models.TripStop{Kind: kind, TargetID: targetID}
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, tripID, targetID).Scan(
		&s.TripID, &s.VisitOrder, &s.EstimatedDuration, &s.ActualDuration, &s.VisitDate,
		&s.StartTime, &s.Notes, &s.IsCompleted, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("%s %d is not a stop of trip %d", kind, targetID, tripID)
		}
		return nil, fmt.Errorf("failed to get stop: %w", err)
	}
	return s, nil
}

// MaxVisitOrder returns the highest visit order among the stops of one kind, 0 when none
func (r *TripRepository) MaxVisitOrder(ctx context.Context, tripID int64, kind models.StopKind) (int, error) {
	t, err := stopTableFor(kind)
	if err != nil {
		return 0, err
	}

	var max int
	query := fmt.Sprintf(`SELECT COALESCE(MAX(visit_order), 0) FROM %s WHERE trip_id = $1`, t.name)
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, tripID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max visit order: %w", err)
	}
	return max, nil
}

// InsertStop adds a stop. The (trip, target) unique constraint turns a repeated
// target into a DuplicateStop error.
func (r *TripRepository) InsertStop(ctx context.Context, stop *models.TripStop) error {
	t, err := stopTableFor(stop.Kind)
	if err != nil {
		return err
	}

	sql, args, err := psql.Insert(t.name).
		Columns("trip_id", t.target, "visit_order", "estimated_duration", "visit_date", "start_time", "notes").
		Values(stop.TripID, stop.TargetID, stop.VisitOrder, stop.EstimatedDuration, stop.VisitDate, stop.StartTime, stop.Notes).
		Suffix("RETURNING is_completed, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert stop query: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&stop.IsCompleted, &stop.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, t.uniqueKey) {
			return apperrors.DuplicateStop(string(stop.Kind), stop.TargetID)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NotFound("%s %d not found", stop.Kind, stop.TargetID)
		}
		logger.Error().Err(err).Int64("tripID", stop.TripID).Str("kind", string(stop.Kind)).Msg("Error inserting stop")
		return fmt.Errorf("failed to insert stop: %w", err)
	}
	return nil
}

// DeleteStop removes a stop and reports whether it existed. Other stops keep their order.
func (r *TripRepository) DeleteStop(ctx context.Context, tripID int64, kind models.StopKind, targetID int64) (bool, error) {
	t, err := stopTableFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE trip_id = $1 AND %s = $2`, t.name, t.target)
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, tripID, targetID)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", tripID).Msg("Error deleting stop")
		return false, fmt.Errorf("failed to delete stop: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetVisitOrder overwrites the order of one stop and reports whether it exists
func (r *TripRepository) SetVisitOrder(ctx context.Context, tripID int64, kind models.StopKind, targetID int64, order int) (bool, error) {
	t, err := stopTableFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`UPDATE %s SET visit_order = $1 WHERE trip_id = $2 AND %s = $3`, t.name, t.target)
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, order, tripID, targetID)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", tripID).Msg("Error reordering stop")
		return false, fmt.Errorf("failed to reorder stop: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStop stores the planning fields of a stop
func (r *TripRepository) UpdateStop(ctx context.Context, stop *models.TripStop) error {
	t, err := stopTableFor(stop.Kind)
	if err != nil {
		return err
	}

	sql, args, err := psql.Update(t.name).
		SetMap(map[string]interface{}{
			"estimated_duration": stop.EstimatedDuration,
			"actual_duration":    stop.ActualDuration,
			"visit_date":         stop.VisitDate,
			"start_time":         stop.StartTime,
			"notes":              stop.Notes,
			"is_completed":       stop.IsCompleted,
		}).
		Where(squirrel.Eq{"trip_id": stop.TripID, t.target: stop.TargetID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update stop query: %w", err)
	}

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tripID", stop.TripID).Msg("Error updating stop")
		return fmt.Errorf("failed to update stop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("%s %d is not a stop of trip %d", stop.Kind, stop.TargetID, stop.TripID)
	}
	return nil
}
