package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tartampluch/go-birthday-server/internal/birthday"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/engine"
	"github.com/tartampluch/go-birthday-server/internal/i18n"
	"github.com/tartampluch/go-birthday-server/internal/metrics"
	"github.com/tartampluch/go-birthday-server/internal/store"
)

// birthdayHandler serves the record CRUD, statistics, and import endpoints.
type birthdayHandler struct {
	store      *store.BirthdayStore
	clock      birthday.Clock
	translator *i18n.Translator
	importer   *engine.Importer
	feed       *calendarFeed
	collector  *metrics.Collector
}

// recordPayload is the inbound shape for create and update. The hasYear
// field of the original wire format is accepted but ignored: the --MM-DD
// prefix of the date is authoritative.
type recordPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Comment   string `json:"comment"`
}

// recordView is the outbound shape: the stored record plus the derived
// values the table UI renders (age, countdown, localized date).
type recordView struct {
	birthday.Record
	Age         *int   `json:"age,omitempty"`
	AgeLabel    string `json:"ageLabel,omitempty"`
	DaysUntil   int    `json:"daysUntil"`
	DisplayDate string `json:"displayDate"`
}

// view derives the presentation fields for one record.
func (h *birthdayHandler) view(r birthday.Record) recordView {
	now := h.clock.Now()
	v := recordView{
		Record:      r,
		DaysUntil:   r.BirthDate.DaysUntil(now),
		DisplayDate: h.translator.FormatDate(r.BirthDate),
	}
	if age, ok := r.BirthDate.AgeOn(now); ok {
		v.Age = &age
		v.AgeLabel = h.translator.AgeLabel(age)
	}
	return v
}

// List returns all records ordered by month/day.
// GET /api/birthdays
func (h *birthdayHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.store.List()
	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, h.view(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

// Create inserts a new record.
// POST /api/birthdays
func (h *birthdayHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	rec := h.store.Create(fields)
	h.afterMutation()
	slog.Info(config.MsgRecordCreated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyID, rec.ID,
		config.LogKeyName, rec.DisplayName(),
	)
	writeJSON(w, http.StatusCreated, h.view(rec))
}

// Update replaces all mutable fields of an existing record.
// PUT /api/birthdays/{id}
func (h *birthdayHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	rec, err := h.store.Update(id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, config.CodeNotFound, config.MsgNotFound)
			return
		}
		writeInternalError(w)
		return
	}
	h.afterMutation()
	slog.Info(config.MsgRecordUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyID, rec.ID,
	)
	writeJSON(w, http.StatusOK, h.view(rec))
}

// Delete removes a record; deleting an absent id succeeds silently.
// DELETE /api/birthdays/{id}
func (h *birthdayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	h.store.Delete(id)
	h.afterMutation()
	slog.Info(config.MsgRecordDeleted,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyID, id,
	)
	w.WriteHeader(http.StatusNoContent)
}

// Stats recomputes the summary from the full record set.
// GET /api/birthdays/stats
func (h *birthdayHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := birthday.ComputeStats(h.store.List(), h.clock.Now())
	if h.collector != nil {
		h.collector.SetRecordCount(stats.TotalRecords)
	}
	writeJSON(w, http.StatusOK, stats)
}

// importRequest is the JSON body pointing the importer at a remote
// collection.
type importRequest struct {
	URL string `json:"url"`
}

// Import ingests vCards, either from the request body directly or from a
// remote URL named in a JSON body.
// POST /api/birthdays/import
func (h *birthdayHandler) Import(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, config.MaxHTTPResponseSize)

	var (
		res engine.ImportResult
		err error
	)
	if strings.HasPrefix(r.Header.Get(config.HeaderContentType), config.MimeJSON) {
		var req importRequest
		if decodeErr := json.NewDecoder(body).Decode(&req); decodeErr != nil || req.URL == "" {
			writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgImportSourceReq)
			return
		}
		res, err = h.importer.ImportURL(r.Context(), req.URL)
	} else {
		res, err = h.importer.ImportStream(r.Context(), body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, err.Error())
		return
	}

	if res.Imported > 0 {
		h.afterMutation()
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeFields reads and validates the inbound record payload.
func (h *birthdayHandler) decodeFields(w http.ResponseWriter, r *http.Request) (birthday.Fields, bool) {
	var p recordPayload
	body := http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgInvalidBody)
		return birthday.Fields{}, false
	}

	if strings.TrimSpace(p.FirstName) == "" {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgFirstNameRequired)
		return birthday.Fields{}, false
	}
	if strings.TrimSpace(p.LastName) == "" {
		writeError(w, http.StatusBadRequest, config.CodeInvalidBody, config.MsgLastNameRequired)
		return birthday.Fields{}, false
	}

	date, err := birthday.ParseDate(p.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, config.CodeMalformedDate, config.MsgMalformedDate)
		return birthday.Fields{}, false
	}

	return birthday.Fields{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		BirthDate: date,
		Comment:   p.Comment,
	}, true
}

// recordID extracts and validates the {id} URL parameter.
func (h *birthdayHandler) recordID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, config.URLParamID)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, config.CodeInvalidID, config.MsgInvalidID)
		return 0, false
	}
	return id, true
}

// afterMutation keeps dependent state in sync with the record set.
func (h *birthdayHandler) afterMutation() {
	if h.feed != nil {
		h.feed.Invalidate()
	}
	if h.collector != nil {
		h.collector.SetRecordCount(h.store.Len())
	}
}
