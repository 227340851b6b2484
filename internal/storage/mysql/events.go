package mysql

import (
	"context"
	"database/sql"
	"time"

	"venue_booking/internal/domain"
)

func scanEvent(row scanner) (domain.Event, error) {
	var e domain.Event
	var venueID sql.NullInt64
	var desc sql.NullString
	if err := row.Scan(&e.ID, &e.UserID, &venueID, &e.Title, &desc, &e.Date, &e.Location, &e.CreatedAt); err != nil {
		return domain.Event{}, err
	}
	e.VenueID = int64Ptr(venueID)
	e.Description = strPtr(desc)
	return e, nil
}

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	res, err := r.db.ExecContext(ctx, insertEventSQL,
		e.UserID, valInt64(e.VenueID), e.Title, valStr(e.Description), e.Date, e.Location)
	if err != nil {
		return domain.Event{}, mapErr("insert event", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Event{}, mapErr("insert event", err)
	}
	return r.GetEvent(ctx, id)
}

func (r *Repo) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, getEventSQL, id))
	if err != nil {
		return domain.Event{}, mapErr("get event", err)
	}
	return e, nil
}

func (r *Repo) UpdateEvent(ctx context.Context, e domain.Event) error {
	_, err := r.db.ExecContext(ctx, updateEventSQL,
		valInt64(e.VenueID), e.Title, valStr(e.Description), e.Date, e.Location, e.ID)
	return mapErr("update event", err)
}

func (r *Repo) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteEventSQL, id)
	return mustAffect("delete event", res, err)
}

func (r *Repo) ListEventsByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, listEventsByUserSQL, userID)
	if err != nil {
		return nil, mapErr("list events", err)
	}
	defer rows.Close()
	out := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapErr("scan event", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list events", err)
	}
	return out, nil
}

func (r *Repo) SaveFeedback(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	res, err := r.db.ExecContext(ctx, insertFeedbackSQL, f.UserID, f.VenueID, f.Text)
	if err != nil {
		return domain.Feedback{}, mapErr("insert feedback", err)
	}
	if f.ID, err = res.LastInsertId(); err != nil {
		return domain.Feedback{}, mapErr("insert feedback", err)
	}
	f.CreatedAt = time.Now().UTC()
	return f, nil
}
