package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"fiftytwo-go/app/services"
)

// StateController handles HTTP requests for rollover, check-in, archived
// summaries, and preferences.
type StateController struct {
	Rollover *services.RolloverService
	Settings *services.SettingsService
}

// NewStateController creates a new StateController.
func NewStateController(rollover *services.RolloverService, settings *services.SettingsService) *StateController {
	return &StateController{Rollover: rollover, Settings: settings}
}

// GetRollover handles GET /rollover.
func (c *StateController) GetRollover(w http.ResponseWriter, r *http.Request) {
	pending := c.Rollover.Pending()
	writeJSON(w, http.StatusOK, map[string]any{
		"pending": pending,
	})
}

// ResolveRollover handles POST /rollover/{choice}.
func (c *StateController) ResolveRollover(w http.ResponseWriter, r *http.Request) {
	choice := mux.Vars(r)["choice"]
	if err := c.Rollover.Resolve(r.Context(), choice); err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingRollover):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, services.ErrUnknownChoice):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetSummaries handles GET /summaries.
func (c *StateController) GetSummaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Rollover.Summaries(r.Context()))
}

// GetCheckin handles GET /checkin.
func (c *StateController) GetCheckin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"due": c.Rollover.CheckinDue(r.Context()),
	})
}

// AcknowledgeCheckin handles POST /checkin.
func (c *StateController) AcknowledgeCheckin(w http.ResponseWriter, r *http.Request) {
	c.Rollover.AcknowledgeCheckin(r.Context())
	w.WriteHeader(http.StatusOK)
}

// GetTheme handles GET /theme.
func (c *StateController) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"theme": c.Settings.Theme(r.Context()),
	})
}

// SetTheme handles PUT /theme.
func (c *StateController) SetTheme(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	c.Settings.SetTheme(r.Context(), payload.Theme)
	w.WriteHeader(http.StatusOK)
}
