package mysql

import (
	"fmt"

	"venue_booking/internal/domain"
)

// -----------------------------------------------------------------------------
// ACCOUNTS
// -----------------------------------------------------------------------------

// Users and venue managers live in two tables with the same columns, so the
// statements are rendered once per table.
type accountSQL struct {
	insert, byEmail, byID, update string
}

func renderAccountSQL(table string) accountSQL {
	const cols = "id, name, email, password, phone, profile_pic, created_at"
	return accountSQL{
		insert:  fmt.Sprintf("INSERT INTO %s (name, email, password, phone, profile_pic) VALUES (?, ?, ?, ?, ?)", table),
		byEmail: fmt.Sprintf("SELECT %s FROM %s WHERE email = ?", cols, table),
		byID:    fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", cols, table),
		update:  fmt.Sprintf("UPDATE %s SET name = ?, email = ?, password = ?, phone = ?, profile_pic = ? WHERE id = ?", table),
	}
}

var accountQueries = map[domain.Role]accountSQL{
	domain.RoleUser:    renderAccountSQL("users"),
	domain.RoleManager: renderAccountSQL("venue_managers"),
}

// -----------------------------------------------------------------------------
// VENUES
// -----------------------------------------------------------------------------

const venueCols = `
  v.id, v.owner_id, v.name, v.address, v.about, v.phone, v.capacity,
  v.latitude, v.longitude, v.picture, v.status, v.created_at,
  m.id, m.name, m.phone, m.profile_pic`

const selectVenuesSQL = `SELECT` + venueCols + `
FROM venues v
LEFT JOIN venue_managers m ON m.id = v.owner_id`

const getVenueSQL = selectVenuesSQL + `
WHERE v.id = ?`

const insertVenueSQL = `
INSERT INTO venues
  (owner_id, name, address, about, phone, capacity, latitude, longitude, picture, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateVenueSQL = `
UPDATE venues SET
  name      = ?,
  address   = ?,
  about     = ?,
  phone     = ?,
  capacity  = ?,
  latitude  = ?,
  longitude = ?,
  picture   = ?
WHERE id = ?
`

const deleteVenueSQL = `DELETE FROM venues WHERE id = ?`

const setVenueStatusSQL = `UPDATE venues SET status = ? WHERE id = ?`

// -----------------------------------------------------------------------------
// FOOD MENU
// -----------------------------------------------------------------------------

const menuCols = `id, venue_id, name, price, picture`

const listMenuSQL = `SELECT ` + menuCols + ` FROM venue_food_menu WHERE venue_id = ? ORDER BY id`

// listMenusPrefix is completed with an IN (...) list by the caller.
const listMenusPrefix = `SELECT ` + menuCols + ` FROM venue_food_menu WHERE venue_id IN `

const getMenuItemSQL = `SELECT ` + menuCols + ` FROM venue_food_menu WHERE id = ?`

const insertMenuItemSQL = `INSERT INTO venue_food_menu (venue_id, name, price, picture) VALUES (?, ?, ?, ?)`

const updateMenuItemSQL = `UPDATE venue_food_menu SET name = ?, price = ?, picture = ? WHERE id = ?`

const deleteMenuItemSQL = `DELETE FROM venue_food_menu WHERE id = ?`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO venue_bookings
  (venue_id, user_id, booking_date, start_time, end_time, status)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const selectBookingsSQL = `
SELECT
  b.id, b.venue_id, b.user_id, b.booking_date, b.start_time, b.end_time,
  b.status, b.created_at,
  v.name, v.owner_id, u.name, u.email
FROM venue_bookings b
JOIN venues v ON v.id = b.venue_id
JOIN users  u ON u.id = b.user_id`

const getBookingSQL = selectBookingsSQL + `
WHERE b.id = ?`

const listBookingsByOwnerSQL = selectBookingsSQL + `
WHERE v.owner_id = ?
ORDER BY b.start_time, b.id`

const updateBookingSQL = `
UPDATE venue_bookings SET
  booking_date = ?,
  start_time   = ?,
  end_time     = ?,
  status       = ?
WHERE id = ?
`

const deleteBookingSQL = `DELETE FROM venue_bookings WHERE id = ?`

const setBookingStatusSQL = `UPDATE venue_bookings SET status = ? WHERE id = ?`

// Re-ordering an item adds to the quantity already on the booking.
const upsertFoodOrderSQL = `
INSERT INTO booking_food_menu (booking_id, food_menu_id, quantity)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)
`

// listFoodOrdersPrefix is completed with an IN (...) list by the caller.
const listFoodOrdersPrefix = `
SELECT o.booking_id, o.food_menu_id, f.name, f.price, o.quantity
FROM booking_food_menu o
JOIN venue_food_menu f ON f.id = o.food_menu_id
WHERE o.booking_id IN `

// -----------------------------------------------------------------------------
// EVENTS AND FEEDBACK
// -----------------------------------------------------------------------------

const eventCols = `id, user_id, venue_id, title, description, date, location, created_at`

const insertEventSQL = `
INSERT INTO events (user_id, venue_id, title, description, date, location)
VALUES (?, ?, ?, ?, ?, ?)
`

const getEventSQL = `SELECT ` + eventCols + ` FROM events WHERE id = ?`

const listEventsByUserSQL = `SELECT ` + eventCols + ` FROM events WHERE user_id = ? ORDER BY date, id`

const updateEventSQL = `
UPDATE events SET
  venue_id    = ?,
  title       = ?,
  description = ?,
  date        = ?,
  location    = ?
WHERE id = ?
`

const deleteEventSQL = `DELETE FROM events WHERE id = ?`

const insertFeedbackSQL = `INSERT INTO venue_feedbacks (user_id, venue_id, feedback) VALUES (?, ?, ?)`
