package mysql

import (
	"context"
	"database/sql"
	"strings"

	"venue_booking/internal/domain"
)

func scanVenue(row scanner) (domain.Venue, error) {
	var (
		v                          domain.Venue
		address, about, phone, pic sql.NullString
		capacity                   sql.NullInt64
		lat, lon                   sql.NullFloat64
		ownerID                    sql.NullInt64
		ownerName, ownerPhone      sql.NullString
		ownerPic                   sql.NullString
	)
	if err := row.Scan(
		&v.ID, &v.OwnerID, &v.Name, &address, &about, &phone, &capacity,
		&lat, &lon, &pic, &v.Status, &v.CreatedAt,
		&ownerID, &ownerName, &ownerPhone, &ownerPic,
	); err != nil {
		return domain.Venue{}, err
	}
	v.Address = strPtr(address)
	v.About = strPtr(about)
	v.Phone = strPtr(phone)
	v.Capacity = intPtr(capacity)
	v.Lat = f64Ptr(lat)
	v.Lon = f64Ptr(lon)
	v.Picture = strPtr(pic)
	if ownerID.Valid {
		v.Owner = &domain.OwnerSummary{
			ID:         ownerID.Int64,
			Name:       ownerName.String,
			Phone:      strPtr(ownerPhone),
			ProfilePic: strPtr(ownerPic),
		}
	}
	return v, nil
}

func scanMenuItem(row scanner) (domain.MenuItem, error) {
	var it domain.MenuItem
	var pic sql.NullString
	if err := row.Scan(&it.ID, &it.VenueID, &it.Name, &it.Price, &pic); err != nil {
		return domain.MenuItem{}, err
	}
	it.Picture = strPtr(pic)
	return it, nil
}

// ListVenues returns matching venues, owner and menu included, ordered by id.
func (r *Repo) ListVenues(ctx context.Context, f domain.VenueFilter) ([]domain.Venue, error) {
	var (
		where []string
		args  []any
	)
	if f.OwnerID != nil {
		where = append(where, "v.owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.Status != nil {
		where = append(where, "v.status = ?")
		args = append(args, int(*f.Status))
	}
	q := selectVenuesSQL
	if len(where) > 0 {
		q += "\nWHERE " + strings.Join(where, " AND ")
	}
	q += "\nORDER BY v.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr("list venues", err)
	}
	defer rows.Close()

	out := []domain.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, mapErr("scan venue", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list venues", err)
	}
	if err := r.attachMenus(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachMenus loads the menus of all venues in one query.
func (r *Repo) attachMenus(ctx context.Context, venues []domain.Venue) error {
	if len(venues) == 0 {
		return nil
	}
	ids := make([]int64, len(venues))
	idx := make(map[int64]int, len(venues))
	for i := range venues {
		ids[i] = venues[i].ID
		idx[venues[i].ID] = i
		venues[i].Menu = []domain.MenuItem{}
	}
	in, args := inList(ids)
	rows, err := r.db.QueryContext(ctx, listMenusPrefix+in+" ORDER BY venue_id, id", args...)
	if err != nil {
		return mapErr("list menus", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return mapErr("scan menu item", err)
		}
		if i, ok := idx[it.VenueID]; ok {
			venues[i].Menu = append(venues[i].Menu, it)
		}
	}
	return mapErr("list menus", rows.Err())
}

func (r *Repo) GetVenue(ctx context.Context, id int64) (domain.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx, getVenueSQL, id))
	if err != nil {
		return domain.Venue{}, mapErr("get venue", err)
	}
	if v.Menu, err = r.ListMenuItems(ctx, id); err != nil {
		return domain.Venue{}, err
	}
	return v, nil
}

func (r *Repo) CreateVenue(ctx context.Context, v domain.Venue) (domain.Venue, error) {
	res, err := r.db.ExecContext(ctx, insertVenueSQL,
		v.OwnerID,
		v.Name,
		valStr(v.Address),
		valStr(v.About),
		valStr(v.Phone),
		valInt(v.Capacity),
		valF64(v.Lat),
		valF64(v.Lon),
		valStr(v.Picture),
		int(v.Status),
	)
	if err != nil {
		return domain.Venue{}, mapErr("insert venue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Venue{}, mapErr("insert venue", err)
	}
	return r.GetVenue(ctx, id)
}

func (r *Repo) UpdateVenue(ctx context.Context, v domain.Venue) error {
	_, err := r.db.ExecContext(ctx, updateVenueSQL,
		v.Name,
		valStr(v.Address),
		valStr(v.About),
		valStr(v.Phone),
		valInt(v.Capacity),
		valF64(v.Lat),
		valF64(v.Lon),
		valStr(v.Picture),
		v.ID,
	)
	return mapErr("update venue", err)
}

func (r *Repo) DeleteVenue(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteVenueSQL, id)
	return mustAffect("delete venue", res, err)
}

func (r *Repo) SetVenueStatus(ctx context.Context, id int64, s domain.VenueStatus) error {
	_, err := r.db.ExecContext(ctx, setVenueStatusSQL, int(s), id)
	return mapErr("set venue status", err)
}

func (r *Repo) ListMenuItems(ctx context.Context, venueID int64) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, listMenuSQL, venueID)
	if err != nil {
		return nil, mapErr("list menu", err)
	}
	defer rows.Close()
	out := []domain.MenuItem{}
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, mapErr("scan menu item", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list menu", err)
	}
	return out, nil
}

func (r *Repo) GetMenuItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	it, err := scanMenuItem(r.db.QueryRowContext(ctx, getMenuItemSQL, id))
	if err != nil {
		return domain.MenuItem{}, mapErr("get menu item", err)
	}
	return it, nil
}

func (r *Repo) CreateMenuItem(ctx context.Context, it domain.MenuItem) (domain.MenuItem, error) {
	res, err := r.db.ExecContext(ctx, insertMenuItemSQL, it.VenueID, it.Name, it.Price, valStr(it.Picture))
	if err != nil {
		return domain.MenuItem{}, mapErr("insert menu item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.MenuItem{}, mapErr("insert menu item", err)
	}
	it.ID = id
	return it, nil
}

func (r *Repo) UpdateMenuItem(ctx context.Context, it domain.MenuItem) error {
	_, err := r.db.ExecContext(ctx, updateMenuItemSQL, it.Name, it.Price, valStr(it.Picture), it.ID)
	return mapErr("update menu item", err)
}

func (r *Repo) DeleteMenuItem(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteMenuItemSQL, id)
	return mustAffect("delete menu item", res, err)
}
