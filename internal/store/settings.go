package store

import (
	"sync"

	"github.com/tartampluch/go-birthday-server/internal/config"
)

// ReminderSettings is the single process-wide reminder schedule.
// Five independent toggles plus the delivery time of day.
type ReminderSettings struct {
	OneMonthBefore  bool   `json:"oneMonthBefore"`
	OneWeekBefore   bool   `json:"oneWeekBefore"`
	ThreeDaysBefore bool   `json:"threeDaysBefore"`
	OneDayBefore    bool   `json:"oneDayBefore"`
	OnBirthday      bool   `json:"onBirthday"`
	TimeOfDay       string `json:"timeOfDay"`
}

// ReminderPatch carries the fields of a replace request. Nil pointers mean
// "keep the current value"; the stored record is merged, never partially
// visible.
type ReminderPatch struct {
	OneMonthBefore  *bool   `json:"oneMonthBefore"`
	OneWeekBefore   *bool   `json:"oneWeekBefore"`
	ThreeDaysBefore *bool   `json:"threeDaysBefore"`
	OneDayBefore    *bool   `json:"oneDayBefore"`
	OnBirthday      *bool   `json:"onBirthday"`
	TimeOfDay       *string `json:"timeOfDay"`
}

// ReminderStore holds exactly one ReminderSettings for the process lifetime.
type ReminderStore struct {
	mu       sync.Mutex
	settings ReminderSettings
}

// NewReminderStore seeds the defaults the original deployment shipped with:
// a reminder one week before, one day before, and on the day, at 10:00.
func NewReminderStore() *ReminderStore {
	return &ReminderStore{
		settings: ReminderSettings{
			OneWeekBefore: true,
			OneDayBefore:  true,
			OnBirthday:    true,
			TimeOfDay:     config.DefaultReminderTime,
		},
	}
}

// Get returns the current settings.
func (s *ReminderStore) Get() ReminderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// Replace merges the supplied fields over the current record and returns the
// result. Unset fields keep their value. Cross-field consistency is not this
// layer's concern.
func (s *ReminderStore) Replace(p ReminderPatch) ReminderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.OneMonthBefore != nil {
		s.settings.OneMonthBefore = *p.OneMonthBefore
	}
	if p.OneWeekBefore != nil {
		s.settings.OneWeekBefore = *p.OneWeekBefore
	}
	if p.ThreeDaysBefore != nil {
		s.settings.ThreeDaysBefore = *p.ThreeDaysBefore
	}
	if p.OneDayBefore != nil {
		s.settings.OneDayBefore = *p.OneDayBefore
	}
	if p.OnBirthday != nil {
		s.settings.OnBirthday = *p.OnBirthday
	}
	if p.TimeOfDay != nil {
		s.settings.TimeOfDay = *p.TimeOfDay
	}
	return s.settings
}

// NotificationSettings is the single process-wide notification channel
// record. Credential fields for non-selected services are retained but inert:
// switching services back and forth never loses a token.
type NotificationSettings struct {
	Service          string `json:"service"`
	TelegramBotToken string `json:"telegramBotToken,omitempty"`
	TelegramChatID   string `json:"telegramChatId,omitempty"`
	EmailAddress     string `json:"emailAddress,omitempty"`
	VKAccessToken    string `json:"vkAccessToken,omitempty"`
	VKUserID         string `json:"vkUserId,omitempty"`
}

// NotificationPatch mirrors NotificationSettings with pointer fields for
// merge-over-current semantics.
type NotificationPatch struct {
	Service          *string `json:"service"`
	TelegramBotToken *string `json:"telegramBotToken"`
	TelegramChatID   *string `json:"telegramChatId"`
	EmailAddress     *string `json:"emailAddress"`
	VKAccessToken    *string `json:"vkAccessToken"`
	VKUserID         *string `json:"vkUserId"`
}

// NotificationStore holds exactly one NotificationSettings for the process.
// Secret fields are mirrored through the CredentialKeeper so they can survive
// restarts in the OS keyring without ever touching disk in plain text.
type NotificationStore struct {
	mu       sync.Mutex
	settings NotificationSettings
	keeper   CredentialKeeper
}

// NewNotificationStore seeds the default channel (telegram, no credentials)
// and pre-loads any secrets the keeper already holds.
func NewNotificationStore(keeper CredentialKeeper) *NotificationStore {
	s := &NotificationStore{
		settings: NotificationSettings{Service: config.ServiceTelegram},
		keeper:   keeper,
	}
	if tok, err := keeper.Get(credTelegramBotToken); err == nil && tok != "" {
		s.settings.TelegramBotToken = tok
	}
	if tok, err := keeper.Get(credVKAccessToken); err == nil && tok != "" {
		s.settings.VKAccessToken = tok
	}
	return s
}

// Get returns the current settings, credentials included. They are only ever
// echoed back to the caller, never transmitted to the named services.
func (s *NotificationStore) Get() NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// Replace merges the supplied fields over the current record. Secret fields
// that changed are mirrored into the credential keeper; keeper failures are
// logged by the keeper itself and never fail the replace.
func (s *NotificationStore) Replace(p NotificationPatch) NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Service != nil {
		s.settings.Service = *p.Service
	}
	if p.TelegramBotToken != nil {
		s.settings.TelegramBotToken = *p.TelegramBotToken
		s.keeper.Set(credTelegramBotToken, *p.TelegramBotToken)
	}
	if p.TelegramChatID != nil {
		s.settings.TelegramChatID = *p.TelegramChatID
	}
	if p.EmailAddress != nil {
		s.settings.EmailAddress = *p.EmailAddress
	}
	if p.VKAccessToken != nil {
		s.settings.VKAccessToken = *p.VKAccessToken
		s.keeper.Set(credVKAccessToken, *p.VKAccessToken)
	}
	if p.VKUserID != nil {
		s.settings.VKUserID = *p.VKUserID
	}
	return s.settings
}
