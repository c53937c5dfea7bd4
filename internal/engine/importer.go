package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-birthday-server/internal/birthday"
	"github.com/tartampluch/go-birthday-server/internal/config"
)

// RecordCreator inserts imported records. Satisfied by *store.BirthdayStore.
type RecordCreator interface {
	Create(fields birthday.Fields) birthday.Record
}

// ImportResult reports how an import went. Skipped cards are the ones with
// no parseable birthday; they are never fatal.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer converts a vCard stream into birthday records.
type Importer struct {
	Store   RecordCreator
	Fetcher VCardFetcher
}

// ImportURL fetches a remote vCard collection and imports it.
func (im *Importer) ImportURL(ctx context.Context, url string) (ImportResult, error) {
	if im.Fetcher == nil {
		return ImportResult{}, errors.New(config.ErrFetcherMissing)
	}
	rc, err := im.Fetcher.Fetch(ctx, url)
	if err != nil {
		return ImportResult{}, err
	}
	defer func() { _ = rc.Close() }()
	return im.ImportStream(ctx, rc)
}

// ImportStream decodes cards one by one and inserts a record for every card
// carrying a parseable BDAY. Malformed cards are logged and counted, not
// fatal; a broken address book should still yield its good entries.
func (im *Importer) ImportStream(ctx context.Context, r io.Reader) (ImportResult, error) {
	decoder := vcard.NewDecoder(r)
	var res ImportResult

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err,
			)
			res.Skipped++
			continue
		}

		fields, ok := cardToFields(card)
		if !ok {
			res.Skipped++
			continue
		}

		im.Store.Create(fields)
		res.Imported++
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyImported, res.Imported,
		config.LogKeySkipped, res.Skipped,
	)
	return res, nil
}

// cardToFields extracts record fields from one card. Cards without a BDAY,
// or with one that no known layout parses, are rejected.
func cardToFields(card vcard.Card) (birthday.Fields, bool) {
	bday := card.Get(config.VCardBDAY)
	if bday == nil || bday.Value == "" {
		return birthday.Fields{}, false
	}

	date, err := parseVCardDate(bday.Value)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, bday.Value,
		)
		return birthday.Fields{}, false
	}

	// Name strategy: FN (formatted) > N (structured) > fallback.
	name := config.FallbackName
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		name = fn.Value
	} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		name = strings.ReplaceAll(n.Value, ";", " ")
	}
	first, last := splitName(name)

	comment := ""
	if note := card.Get(config.VCardNote); note != nil {
		comment = note.Value
	}

	return birthday.Fields{
		FirstName: first,
		LastName:  last,
		BirthDate: date,
		Comment:   comment,
	}, true
}

// splitName breaks a display name into first/last on the first space.
// Single-token names land entirely in the first name.
func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

// parseVCardDate handles the date formats vCards carry in the wild, both
// dated and year-less (truncated) variants.
func parseVCardDate(value string) (birthday.Date, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return birthday.Date{
				Month:     t.Month(),
				Day:       t.Day(),
				Year:      t.Year(),
				YearKnown: true,
			}, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return birthday.Date{Month: t.Month(), Day: t.Day()}, nil
		}
	}

	return birthday.Date{}, fmt.Errorf("%w: %q", birthday.ErrMalformedDate, value)
}
