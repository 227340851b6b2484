package httpserver

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"venue_booking/internal/app"
	"venue_booking/internal/domain"
)

func (h *Handlers) nearestVenues(w http.ResponseWriter, r *http.Request) {
	var in coordsBody
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	lat, lon, err := in.values()
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Queries.NearestVenues(r.Context(), lat, lon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Nearest venues retrieved successfully", out)
}

func (h *Handlers) listVenues(w http.ResponseWriter, r *http.Request) {
	var owner *int64
	if s := r.URL.Query().Get("owner_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		owner = &id
	}
	out, err := h.Queries.ListVenues(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Venues fetched successfully", out)
}

func (h *Handlers) getVenue(w http.ResponseWriter, r *http.Request) {
	v, err := h.Queries.GetVenue(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := envelope{Code: http.StatusOK, Status: "success", Message: "Venue retrieved successfully", Data: v}
	etag, body := calcETagAndBody(resp)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getVenue body")
	}
}

func (h *Handlers) createVenue(w http.ResponseWriter, r *http.Request) {
	f, err := parseForm(w, r, h.MaxUploadBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.close()

	in := app.CreateVenueInput{Name: f.str("name"), About: f.opt("about"), Phone: f.opt("phone")}
	if in.Lat, err = f.floatVal("latitude", "Latitude and longitude must be numbers"); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Lon, err = f.floatVal("longitude", "Latitude and longitude must be numbers"); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Capacity, err = f.intVal("capacity", "Capacity must be a positive integer"); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Picture, err = f.upload("picture"); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := h.Venues.CreateVenue(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Venue created successfully", v)
}

func (h *Handlers) updateVenue(w http.ResponseWriter, r *http.Request) {
	var in app.UpdateVenueInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Venues.UpdateVenue(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Venue updated successfully", v)
}

func (h *Handlers) deleteVenue(w http.ResponseWriter, r *http.Request) {
	if err := h.Venues.DeleteVenue(r.Context(), principal(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Venue deleted successfully", nil)
}

// ---- food menu ----

func (h *Handlers) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Queries.Menu(r.Context(), pathID(r, "venueID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Food items retrieved successfully", items)
}

func (h *Handlers) menuInput(w http.ResponseWriter, r *http.Request) (*form, app.MenuItemInput, error) {
	f, err := parseForm(w, r, h.MaxUploadBytes)
	if err != nil {
		return nil, app.MenuItemInput{}, err
	}
	in := app.MenuItemInput{Name: f.opt("name")}
	if in.Price, err = f.floatVal("price", "Price must be a positive number"); err != nil {
		f.close()
		return nil, app.MenuItemInput{}, err
	}
	if in.Picture, err = f.upload("picture"); err != nil {
		f.close()
		return nil, app.MenuItemInput{}, err
	}
	return f, in, nil
}

func (h *Handlers) addMenuItem(w http.ResponseWriter, r *http.Request) {
	f, in, err := h.menuInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.close()

	it, err := h.Venues.AddMenuItem(r.Context(), principal(r), pathID(r, "venueID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Food Item added successfully", it)
}

func (h *Handlers) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	f, in, err := h.menuInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.close()

	it, err := h.Venues.UpdateMenuItem(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Food Item updated successfully", it)
}

func (h *Handlers) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.Venues.DeleteMenuItem(r.Context(), principal(r), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Food Item deleted successfully", it)
}

// ---- admin ----

func (h *Handlers) pendingVenues(w http.ResponseWriter, r *http.Request) {
	out, err := h.Queries.PendingVenues(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Venue fetched successfully", out)
}

func (h *Handlers) changeVenueStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		VenueID int64              `json:"venue_id"`
		Status  domain.VenueStatus `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Venues.ChangeStatus(r.Context(), in.VenueID, in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Venues status updated successfully", v)
}
