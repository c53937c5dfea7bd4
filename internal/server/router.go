package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tartampluch/go-birthday-server/internal/birthday"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
	"github.com/tartampluch/go-birthday-server/internal/i18n"
	"github.com/tartampluch/go-birthday-server/internal/metrics"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// Deps bundles everything the router needs.
type Deps struct {
	Store         *store.BirthdayStore
	Reminders     *store.ReminderStore
	Notifications *store.NotificationStore
	Clock         birthday.Clock
	Translator    *i18n.Translator
	Fetcher       engine.VCardFetcher
	Metrics       *metrics.Collector
}

// NewRouter wires every endpoint and the middleware chain
// (recovery → logging/metrics → handlers).
func NewRouter(deps Deps) http.Handler {
	generator := &engine.Generator{
		Records:       deps.Store,
		Reminders:     deps.Reminders,
		Clock:         deps.Clock,
		FormatSummary: deps.Translator.EventSummary,
	}
	feed := newCalendarFeed(generator)

	bh := &birthdayHandler{
		store:      deps.Store,
		clock:      deps.Clock,
		translator: deps.Translator,
		importer:   &engine.Importer{Store: deps.Store, Fetcher: deps.Fetcher},
		feed:       feed,
		collector:  deps.Metrics,
	}
	sh := &settingsHandler{
		reminders:     deps.Reminders,
		notifications: deps.Notifications,
		feed:          feed,
	}

	r := chi.NewRouter()
	r.Use(recovery)
	r.Use(requestLogger(deps.Metrics))

	r.Route(config.RouteBirthdays, func(r chi.Router) {
		r.Get("/", bh.List)
		r.Post("/", bh.Create)
		r.Get(config.RouteStats, bh.Stats)
		r.Get(config.RouteCalendar, feed.ServeHTTP)
		r.Post(config.RouteImport, bh.Import)

		r.Route(config.RouteBirthdayByID, func(r chi.Router) {
			r.Put("/", bh.Update)
			r.Delete("/", bh.Delete)
		})
	})

	r.Route(config.RouteReminderSettings, func(r chi.Router) {
		r.Get("/", sh.GetReminders)
		r.Put("/", sh.PutReminders)
	})
	r.Route(config.RouteNotificationSettings, func(r chi.Router) {
		r.Get("/", sh.GetNotifications)
		r.Put("/", sh.PutNotifications)
	})

	r.Get(config.RouteHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(config.MsgHealthOK))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, config.RouteMetrics, deps.Metrics.Handler())
	}

	return r
}
