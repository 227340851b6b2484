package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"venue_booking/internal/app"
	"venue_booking/internal/domain"
)

// Handlers binds the application services to HTTP routes.
type Handlers struct {
	Accounts *app.AccountService
	Queries  *app.QueryService
	Venues   *app.VenueService
	Bookings *app.BookingService
	Events   *app.EventService
	Pictures *app.PictureService

	Tokens         TokenParser
	AdminKey       string
	MaxUploadBytes int64
}

// envelope is the shape of every JSON response body.
type envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// uploaded pictures
	s.mux.Get("/venues/{name}", h.picture(domain.PictureVenue))
	s.mux.Get("/foodItems/{name}", h.picture(domain.PictureFoodItem))
	s.mux.Get("/profiles/{name}", h.picture(domain.PictureProfile))

	s.mux.Route("/api/v1", func(r chi.Router) {
		h.accountRoutes(r, "/user", domain.RoleUser)
		h.accountRoutes(r, "/venue-manager", domain.RoleManager)

		r.With(h.Authenticate, RequireRole(domain.RoleUser)).Post("/user/info", h.homeFeed)
		r.Post("/venues/suggest/nearest", h.nearestVenues)

		r.Get("/venues", h.listVenues)
		r.Get("/venues/{id}", h.getVenue)
		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)
			r.With(RequireRole(domain.RoleManager)).Post("/venues", h.createVenue)
			r.Put("/venues/{id}", h.updateVenue)
			r.Delete("/venues/{id}", h.deleteVenue)

			r.With(RequireRole(domain.RoleUser)).Post("/venues/{id}/bookings", h.createBooking)
			r.With(RequireRole(domain.RoleManager)).Get("/bookings/requests", h.bookingRequests)
			r.Get("/bookings/{id}", h.getBooking)
			r.Put("/bookings/{id}", h.updateBooking)
			r.Delete("/bookings/{id}", h.deleteBooking)
			r.With(RequireRole(domain.RoleManager)).Post("/bookings/{id}/accept", h.acceptBooking)

			r.Post("/food-menu/{venueID}", h.addMenuItem)
			r.Put("/food-menu/{id}", h.updateMenuItem)
			r.Delete("/food-menu/{id}", h.deleteMenuItem)
			r.With(RequireRole(domain.RoleUser)).Post("/food-menu/order/save", h.saveFoodOrder)

			r.Post("/events", h.createEvent)
			r.Put("/events/{id}", h.updateEvent)
			r.Delete("/events/{id}", h.deleteEvent)

			r.Post("/feedback", h.saveFeedback)
		})
		r.Get("/food-menu/{venueID}", h.listMenu)
		r.Get("/events/{id}", h.getEvent)
		r.Get("/events/user/{userID}", h.listUserEvents)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.AdminOnly)
			r.Get("/venues", h.pendingVenues)
			r.Post("/venue/change-status", h.changeVenueStatus)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Code: status, Status: "success", Message: message, Data: data}); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeProblem(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Code: status, Status: "error", Message: message}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError shows the client-facing message of known error kinds and hides
// everything else behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, status, "Internal server error")
		return
	}
	msg := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Msg
	}
	writeProblem(w, status, msg)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// decodeJSON reads a JSON body into dst. Malformed bodies are a 400.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("Invalid JSON body")
	}
	return nil
}

// pathID parses a numeric URL parameter; anything else yields 0, which the
// services reject with their own message.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
