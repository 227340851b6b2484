package mysql

import (
	"context"
	"fmt"

	"venue_booking/internal/domain"
)

func scanBooking(row scanner) (domain.BookingView, error) {
	var b domain.BookingView
	if err := row.Scan(
		&b.ID, &b.VenueID, &b.UserID, &b.BookingDate, &b.StartTime, &b.EndTime,
		&b.Status, &b.CreatedAt,
		&b.VenueName, &b.VenueOwnerID, &b.UserName, &b.UserEmail,
	); err != nil {
		return domain.BookingView{}, err
	}
	b.FoodOrder = []domain.FoodOrderLine{}
	return b, nil
}

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	res, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.VenueID, b.UserID, b.BookingDate, b.StartTime, b.EndTime, string(b.Status))
	if err != nil {
		return domain.Booking{}, mapErr("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, mapErr("insert booking", err)
	}
	v, err := r.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	return v.Booking, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.BookingView, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err != nil {
		return domain.BookingView{}, mapErr("get booking", err)
	}
	views := []domain.BookingView{b}
	if err := r.attachFoodOrders(ctx, views); err != nil {
		return domain.BookingView{}, err
	}
	return views[0], nil
}

func (r *Repo) ListBookingsByOwner(ctx context.Context, ownerID int64) ([]domain.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByOwnerSQL, ownerID)
	if err != nil {
		return nil, mapErr("list bookings", err)
	}
	defer rows.Close()
	out := []domain.BookingView{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mapErr("scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list bookings", err)
	}
	if err := r.attachFoodOrders(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) attachFoodOrders(ctx context.Context, views []domain.BookingView) error {
	if len(views) == 0 {
		return nil
	}
	ids := make([]int64, len(views))
	idx := make(map[int64]int, len(views))
	for i := range views {
		ids[i] = views[i].ID
		idx[views[i].ID] = i
	}
	in, args := inList(ids)
	rows, err := r.db.QueryContext(ctx, listFoodOrdersPrefix+in+" ORDER BY o.booking_id, o.food_menu_id", args...)
	if err != nil {
		return mapErr("list food orders", err)
	}
	defer rows.Close()
	for rows.Next() {
		var bookingID int64
		var l domain.FoodOrderLine
		if err := rows.Scan(&bookingID, &l.MenuItemID, &l.Name, &l.Price, &l.Quantity); err != nil {
			return mapErr("scan food order", err)
		}
		if i, ok := idx[bookingID]; ok {
			views[i].FoodOrder = append(views[i].FoodOrder, l)
		}
	}
	return mapErr("list food orders", rows.Err())
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, updateBookingSQL, b.BookingDate, b.StartTime, b.EndTime, string(b.Status), b.ID)
	return mapErr("update booking", err)
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	return mustAffect("delete booking", res, err)
}

func (r *Repo) SetBookingStatus(ctx context.Context, id int64, s domain.BookingStatus) error {
	_, err := r.db.ExecContext(ctx, setBookingStatusSQL, string(s), id)
	return mapErr("set booking status", err)
}

// AddFoodOrder adds every line in one transaction; quantities accumulate.
func (r *Repo) AddFoodOrder(ctx context.Context, bookingID int64, lines []domain.FoodOrderLine) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("begin food order", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertFoodOrderSQL)
	if err != nil {
		return mapErr("prepare food order", err)
	}
	defer stmt.Close()

	for _, l := range lines {
		if _, err = stmt.ExecContext(ctx, bookingID, l.MenuItemID, l.Quantity); err != nil {
			return mapErr(fmt.Sprintf("add food item %d", l.MenuItemID), err)
		}
	}
	if err = tx.Commit(); err != nil {
		return mapErr("commit food order", err)
	}
	return nil
}
