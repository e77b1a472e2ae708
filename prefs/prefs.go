// Package prefs persists small user preferences through the storage repo.
package prefs

import (
	"strconv"

	"github.com/Slayer-Regen/ecoquest-client/storage"
)

type Prefs struct {
	storage storage.Repo
}

func New(repo storage.Repo) *Prefs {
	return &Prefs{storage: repo}
}

// DarkMode reports the persisted dark-mode preference. Absent or malformed
// values read as false.
func (p *Prefs) DarkMode() bool {
	value, err := p.storage.Get(storage.KeyDarkMode)
	if err != nil {
		return false
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return enabled
}

func (p *Prefs) SetDarkMode(enabled bool) error {
	return p.storage.Set(storage.KeyDarkMode, strconv.FormatBool(enabled))
}

// ToggleDarkMode flips and persists the preference, returning the new value.
func (p *Prefs) ToggleDarkMode() (bool, error) {
	enabled := !p.DarkMode()
	if err := p.SetDarkMode(enabled); err != nil {
		return false, err
	}
	return enabled, nil
}
