// Package settings persists the overlay's user preferences as a flat
// key-value record.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
)

// Recognized setting keys.
const (
	KeyTheme         = "theme"
	KeyLocale        = "locale"
	KeyScale         = "scale"
	KeyVolume        = "volume"
	KeyNotifications = "notifications"
	KeyAutoplay      = "autoplay"
	KeyShuffle       = "shuffle"
	KeyRepeat        = "repeat"
)

// Scale bounds for the overlay layout.
const (
	MinScale = 0.7
	MaxScale = 1.3
)

// Record is the full settings record.
type Record struct {
	Theme         string          `json:"theme"`
	Locale        string          `json:"locale"`
	Scale         float64         `json:"scale"`
	Volume        int             `json:"volume"`
	Notifications bool            `json:"notifications"`
	Autoplay      bool            `json:"autoplay"`
	Shuffle       bool            `json:"shuffle"`
	Repeat        core.RepeatMode `json:"repeat"`
}

// Defaults returns the settings of a fresh install.
func Defaults() Record {
	return Record{
		Theme:         "dark",
		Locale:        "pt-BR",
		Scale:         1.0,
		Volume:        core.DefaultVolume,
		Notifications: true,
		Autoplay:      false,
		Shuffle:       false,
		Repeat:        core.RepeatNone,
	}
}

// Keys returns the recognized setting keys in sorted order.
func Keys() []string {
	keys := []string{
		KeyTheme, KeyLocale, KeyScale, KeyVolume,
		KeyNotifications, KeyAutoplay, KeyShuffle, KeyRepeat,
	}
	sort.Strings(keys)
	return keys
}

// Themes returns the available themes.
func Themes() []string {
	return []string{"dark", "light"}
}

// Locales returns the available locales.
func Locales() []string {
	return []string{"pt-BR", "en-US"}
}

// RepeatModes returns the available repeat modes.
func RepeatModes() []string {
	modes := core.RepeatModes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}

// Store holds the settings record and writes it to disk on every change.
type Store struct {
	path string
	mu   sync.RWMutex
	rec  Record
}

// NewStore creates a store backed by the file at path. Nothing is read until
// Load is called. An empty path keeps settings in memory only.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		rec:  Defaults(),
	}
}

// Open creates a store for path and loads it.
func Open(path string) (*Store, *tberrors.PartialResult[Record], error) {
	s := NewStore(path)
	result, err := s.Load()
	if err != nil {
		return nil, nil, err
	}
	return s, result, nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file leaves the defaults in place.
// Entries that are unknown or out of range are skipped and reported in the
// partial result instead of failing the whole load.
func (s *Store) Load() (*tberrors.PartialResult[Record], error) {
	result := &tberrors.PartialResult[Record]{}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		result.Data = s.rec
		return result, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Data = s.rec
			return result, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	rec := Defaults()
	for key, value := range raw {
		if err := apply(&rec, key, value); err != nil {
			result.AddError(err)
		}
	}
	s.rec = rec
	result.Data = rec
	return result, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch key {
	case KeyTheme:
		return s.rec.Theme, true
	case KeyLocale:
		return s.rec.Locale, true
	case KeyScale:
		return s.rec.Scale, true
	case KeyVolume:
		return s.rec.Volume, true
	case KeyNotifications:
		return s.rec.Notifications, true
	case KeyAutoplay:
		return s.rec.Autoplay, true
	case KeyShuffle:
		return s.rec.Shuffle, true
	case KeyRepeat:
		return string(s.rec.Repeat), true
	}
	return nil, false
}

// Has reports whether key is a recognized setting.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// All returns a copy of the settings record.
func (s *Store) All() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec
}

// Set validates value for key and persists the record. Unknown keys return
// ErrUnknownSetting and out-of-domain values ErrInvalidSetting; in both cases
// the stored record is unchanged.
func (s *Store) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.rec
	if err := apply(&rec, key, value); err != nil {
		return err
	}
	return s.commitLocked(rec)
}

// SetString parses raw text (as typed on the command line) for key and
// stores it.
func (s *Store) SetString(key, raw string) error {
	value, err := parse(key, raw)
	if err != nil {
		return err
	}
	return s.Set(key, value)
}

// Replace validates every field of rec and stores it as a whole.
func (s *Store) Replace(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(rec)
}

// Reset restores the defaults and persists them.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(Defaults())
}

// commitLocked persists rec and makes it the stored record. A failed write
// leaves the stored record unchanged.
func (s *Store) commitLocked(rec Record) error {
	if err := s.write(rec); err != nil {
		return err
	}
	s.rec = rec
	return nil
}

func (s *Store) write(rec Record) error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Validate checks every field of the record.
func (r Record) Validate() error {
	var errs []error
	check := func(key string, value interface{}) {
		scratch := r
		if err := apply(&scratch, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	check(KeyTheme, r.Theme)
	check(KeyLocale, r.Locale)
	check(KeyScale, r.Scale)
	check(KeyVolume, r.Volume)
	check(KeyRepeat, string(r.Repeat))
	return errors.Join(errs...)
}

func apply(rec *Record, key string, value interface{}) error {
	switch key {
	case KeyTheme:
		v, ok := value.(string)
		if !ok || !contains(Themes(), v) {
			return invalid(key, value, "dark or light")
		}
		rec.Theme = v
	case KeyLocale:
		v, ok := value.(string)
		if !ok || strings.TrimSpace(v) == "" {
			return invalid(key, value, "a non-empty locale such as en-US")
		}
		rec.Locale = v
	case KeyScale:
		v, ok := toFloat(value)
		if !ok || v < MinScale || v > MaxScale {
			return invalid(key, value, "a number between 0.7 and 1.3")
		}
		rec.Scale = v
	case KeyVolume:
		v, ok := toFloat(value)
		if !ok || v < 0 || v > 100 || v != float64(int(v)) {
			return invalid(key, value, "a whole number between 0 and 100")
		}
		rec.Volume = int(v)
	case KeyNotifications, KeyAutoplay, KeyShuffle:
		v, ok := value.(bool)
		if !ok {
			return invalid(key, value, "true or false")
		}
		switch key {
		case KeyNotifications:
			rec.Notifications = v
		case KeyAutoplay:
			rec.Autoplay = v
		default:
			rec.Shuffle = v
		}
	case KeyRepeat:
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case core.RepeatMode:
			s = string(v)
		}
		mode, ok := core.ParseRepeatMode(s)
		if !ok {
			return invalid(key, value, "none, one, or all")
		}
		rec.Repeat = mode
	default:
		return fmt.Errorf("%w: %s", tberrors.ErrUnknownSetting, key)
	}
	return nil
}

func parse(key, raw string) (interface{}, error) {
	switch key {
	case KeyScale, KeyVolume:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalid(key, raw, "a number")
		}
		return f, nil
	case KeyNotifications, KeyAutoplay, KeyShuffle:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid(key, raw, "true or false")
		}
		return b, nil
	default:
		return raw, nil
	}
}

func invalid(key string, value interface{}, want string) error {
	return fmt.Errorf("%w: %s=%v (must be %s)", tberrors.ErrInvalidSetting, key, value, want)
}

// toFloat converts numeric values. NaN and infinities are rejected.
func toFloat(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
