package server

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// settingsHandler serves the two singleton settings records.
type settingsHandler struct {
	reminders     *store.ReminderStore
	notifications *store.NotificationStore
	feed          *calendarFeed
}

// GetReminders returns the current reminder schedule.
// GET /api/reminder-settings
func (h *settingsHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reminders.Get())
}

// PutReminders merges the supplied fields over the current schedule.
// Unsupplied fields keep their value.
// PUT /api/reminder-settings
func (h *settingsHandler) PutReminders(w http.ResponseWriter, r *http.Request) {
	var patch store.ReminderPatch
	body := http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgInvalidBody)
		return
	}
	if patch.TimeOfDay != nil && !slices.Contains(config.AllowedReminderTimes, *patch.TimeOfDay) {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgBadTimeOfDay)
		return
	}

	settings := h.reminders.Replace(patch)
	// The exported calendar derives its alarms from this schedule.
	if h.feed != nil {
		h.feed.Invalidate()
	}
	writeJSON(w, http.StatusOK, settings)
}

// GetNotifications returns the current notification channel settings,
// credentials included: they are stored and echoed back, never transmitted
// to the named services.
// GET /api/notification-settings
func (h *settingsHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifications.Get())
}

// PutNotifications merges the supplied fields over the current settings.
// Selecting a service without its credentials is deliberately accepted;
// cross-field consistency belongs to whoever eventually sends messages.
// PUT /api/notification-settings
func (h *settingsHandler) PutNotifications(w http.ResponseWriter, r *http.Request) {
	var patch store.NotificationPatch
	body := http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgInvalidBody)
		return
	}
	if patch.Service != nil && !validService(*patch.Service) {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgBadService)
		return
	}

	writeJSON(w, http.StatusOK, h.notifications.Replace(patch))
}

func validService(s string) bool {
	switch s {
	case config.ServiceTelegram, config.ServiceEmail, config.ServiceVK:
		return true
	}
	return false
}
