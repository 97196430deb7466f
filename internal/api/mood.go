package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kalambet/studentwell/internal/checkin"
	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/recommend"
)

const maxNotesLength = 10000

// CheckInRequest is the body of POST /checkins. A zero Value means no mood
// was selected.
type CheckInRequest struct {
	Value int    `json:"value" validate:"required,min=1,max=5"`
	Notes string `json:"notes" validate:"max=10000"`
}

// CheckInResponse is returned for a recorded check-in.
type CheckInResponse struct {
	Entry        mood.Entry           `json:"entry"`
	Notification checkin.Notification `json:"notification"`
}

// RecommendationsResponse pairs suggestions with the label they were chosen for.
type RecommendationsResponse struct {
	Mood            string                     `json:"mood"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func handleHistory(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := d.History()
		if limit := parseIntParam(r, "limit", 0, 0); limit > 0 {
			h = mood.RecentWindow(h, limit)
		}
		if h == nil {
			h = mood.History{}
		}
		writeJSON(w, http.StatusOK, h)
	}
}

func handleLatest(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := d.Snapshot()
		if snap.Latest == nil {
			httpError(w, http.StatusNotFound, "not_found", "no check-ins recorded yet")
			return
		}
		writeJSON(w, http.StatusOK, snap.Latest)
	}
}

func handleCheckIn(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req CheckInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if err := validate.Struct(req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%s", validationMessage(err))
			return
		}

		entry, note, err := d.CheckIn(req.Value, req.Notes)
		switch {
		case errors.Is(err, dashboard.ErrAlreadyCheckedIn):
			httpError(w, http.StatusConflict, "conflict", "already checked in today")
			return
		case errors.Is(err, mood.ErrInvalidMood), errors.Is(err, checkin.ErrNoMoodSelected):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "api_error", "failed to record check-in: %v", err)
			return
		}

		writeJSON(w, http.StatusCreated, CheckInResponse{Entry: entry, Notification: note})
	}
}

// validationMessage turns validator output into the wording the form uses.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Field() == "Value" && fe.Tag() == "required":
			msgs = append(msgs, checkin.ErrNoMoodSelected.Error())
		case fe.Field() == "Value":
			msgs = append(msgs, "value must be between 1 and 5")
		case fe.Field() == "Notes":
			msgs = append(msgs, "notes are too long")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}

func handleTrends(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Trends())
	}
}

func handleRecommendations(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		label := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mood")))
		if label == "" {
			label = d.CurrentMood()
		}
		writeJSON(w, http.StatusOK, RecommendationsResponse{
			Mood:            label,
			Recommendations: recommend.For(label),
		})
	}
}

func handleDashboard(d *dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Snapshot())
	}
}

func handleResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.CrisisResources)
}
