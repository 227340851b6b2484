package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"venue_booking/internal/app"
	"venue_booking/internal/domain"
)

func (h *Handlers) createEvent(w http.ResponseWriter, r *http.Request) {
	var in app.EventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.Events.Create(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Event created successfully", e)
}

func (h *Handlers) getEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.Events.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Event retrieved successfully", e)
}

func (h *Handlers) updateEvent(w http.ResponseWriter, r *http.Request) {
	var in app.EventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.Events.Update(r.Context(), principal(r), pathID(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Event updated successfully", e)
}

func (h *Handlers) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Events.Delete(r.Context(), principal(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Event deleted successfully", nil)
}

func (h *Handlers) listUserEvents(w http.ResponseWriter, r *http.Request) {
	es, err := h.Events.ListByUser(r.Context(), pathID(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "Events retrieved successfully", es)
}

func (h *Handlers) saveFeedback(w http.ResponseWriter, r *http.Request) {
	var in app.FeedbackInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := h.Events.SaveFeedback(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Feedback saved successfully", f)
}

// picture streams an uploaded file back from the store.
func (h *Handlers) picture(kind domain.PictureKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, err := h.Pictures.Open(r.Context(), kind, chi.URLParam(r, "name"))
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := io.Copy(w, rc); err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("picture stream interrupted")
		}
	}
}
