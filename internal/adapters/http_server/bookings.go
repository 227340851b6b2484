package httpserver

import (
	"net/http"

	"venue_booking/internal/app"
)

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var in app.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Create(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Booking created successfully", b)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Get(r.Context(), principal(r), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Booking retrieved successfully", b)
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	var in app.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Update(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Booking updated successfully", b)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Delete(r.Context(), principal(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Booking deleted successfully", nil)
}

func (h *Handlers) acceptBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Accept(r.Context(), principal(r), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Booking request accepted successfully", b)
}

func (h *Handlers) bookingRequests(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.Requests(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Bookings retrieved successfully", out)
}

func (h *Handlers) saveFoodOrder(w http.ResponseWriter, r *http.Request) {
	var in app.FoodOrderInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Bookings.SaveFoodOrder(r.Context(), principal(r), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Menu items successfully booked.", nil)
}
