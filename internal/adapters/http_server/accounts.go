package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"venue_booking/internal/app"
	"venue_booking/internal/domain"
)

type coordsBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (b coordsBody) values() (float64, float64, error) {
	if b.Latitude == nil || b.Longitude == nil {
		return 0, 0, domain.Invalid("Latitude and longitude must be numbers")
	}
	return *b.Latitude, *b.Longitude, nil
}

func (h *Handlers) accountRoutes(r chi.Router, prefix string, role domain.Role) {
	r.Post(prefix+"/signup", h.signup(role))
	r.Post(prefix+"/login", h.login(role))
	r.With(h.Authenticate, RequireRole(role)).Post(prefix+"/update-profile", h.updateProfile)
}

func (h *Handlers) signup(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in app.SignupInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		a, err := h.Accounts.Signup(r.Context(), role, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, "Signup successful", a)
	}
}

func (h *Handlers) login(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		s, err := h.Accounts.Login(r.Context(), role, in.Email, in.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, "Login successful", s)
	}
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	f, err := parseForm(w, r, h.MaxUploadBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.close()

	in := app.ProfileUpdate{Name: f.opt("name"), Email: f.opt("email"), Password: f.opt("password")}
	if in.Picture, err = f.upload("picture"); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.Accounts.UpdateProfile(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Profile updated successfully", a)
}

// homeFeed is the signed-in user's landing screen.
func (h *Handlers) homeFeed(w http.ResponseWriter, r *http.Request) {
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
	feed, err := h.Queries.HomeFeed(r.Context(), principal(r).ID, lat, lon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "User information retrieved successfully", feed)
}
