// Package i18n renders the human-facing strings of the service: pluralized
// age labels, long-form birthday dates, and calendar event summaries.
// Plural selection follows the CLDR rules of the active language, which for
// Russian is the three-way год/года/лет split keyed on the last digits of
// the number.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/tartampluch/go-birthday-server/internal/birthday"
	"github.com/tartampluch/go-birthday-server/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator localizes strings for a fixed language chosen at startup.
// It is immutable after construction and safe for concurrent use.
type Translator struct {
	localizer *i18n.Localizer
}

// New builds the translation bundle from the embedded locale files and
// returns a Translator for the requested language. Unknown languages fall
// back to English message by message.
func New(lang string) (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyFile, name,
		)
	}

	return &Translator{
		localizer: i18n.NewLocalizer(bundle, lang),
	}, nil
}

// AgeLabel renders an age with its pluralized noun, e.g. "1 год", "3 года",
// "25 лет" in Russian or "1 year", "25 years" in English.
func (t *Translator) AgeLabel(age int) string {
	return t.localize(config.TKeyAgeYears, map[string]interface{}{"Count": age}, age)
}

// FormatDate renders a birthday date in long form. The year is included only
// when the date carries one.
func (t *Translator) FormatDate(d birthday.Date) string {
	data := map[string]interface{}{
		"Day":   d.Day,
		"Month": t.monthName(int(d.Month)),
	}
	key := config.TKeyDateNoYear
	if d.YearKnown {
		key = config.TKeyDateFull
		data["Year"] = d.Year
	}
	return t.localize(key, data, nil)
}

// EventSummary renders a calendar event title for a person turning the given
// age. Age 0 with a known year reads as a birth event; an unknown year omits
// the age entirely.
func (t *Translator) EventSummary(name string, age int, yearKnown bool) string {
	switch {
	case !yearKnown:
		return t.localize(config.TKeyEvtSummary, map[string]interface{}{"Name": name}, nil)
	case age == 0:
		return t.localize(config.TKeyEvtSummaryBirth, map[string]interface{}{"Name": name}, nil)
	default:
		return t.localize(config.TKeyEvtSummaryAge, map[string]interface{}{
			"Name": name,
			"Age":  t.AgeLabel(age),
		}, nil)
	}
}

// monthName resolves the localized month name (genitive case in Russian,
// since it always follows a day number).
func (t *Translator) monthName(month int) string {
	return t.localize(config.TKeyMonthPrefix+strconv.Itoa(month), nil, nil)
}

// localize translates a key, logging and returning the key itself when the
// translation is missing so a broken locale file degrades visibly but safely.
func (t *Translator) localize(key string, data map[string]interface{}, pluralCount interface{}) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  pluralCount,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
