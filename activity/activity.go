// Package activity models lifestyle activity submissions. Each activity
// type carries its own details shape; the server computes the resulting
// CO2 figure.
package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Type string

const (
	TypeCommute     Type = "commute"
	TypeElectricity Type = "electricity"
	TypeFlight      Type = "flight"
	TypeFood        Type = "food"
)

var (
	ErrUnknownType    = errors.New("unknown activity type")
	ErrMissingDetails = errors.New("activity details are required")
)

// Details is the per-type payload. Validate runs client-side before
// submission; the server revalidates regardless.
type Details interface {
	Type() Type
	Validate() error
}

// Commute modes accepted by the backend.
const (
	ModeCar       = "car"
	ModeBus       = "bus"
	ModeTrain     = "train"
	ModeBike      = "bike"
	ModeWalk      = "walk"
	ModeMotorbike = "motorbike"
)

type Commute struct {
	Mode       string  `json:"mode"`
	DistanceKm float64 `json:"distance"`
}

func (Commute) Type() Type { return TypeCommute }

func (c Commute) Validate() error {
	if c.Mode == "" {
		return errors.New("commute mode is required")
	}
	if c.DistanceKm <= 0 {
		return errors.New("commute distance must be positive")
	}
	return nil
}

type Electricity struct {
	Kwh         float64 `json:"kwh"`
	CountryCode string  `json:"countryCode"`
}

func (Electricity) Type() Type { return TypeElectricity }

func (e Electricity) Validate() error {
	if e.Kwh <= 0 {
		return errors.New("electricity usage must be positive")
	}
	if len(e.CountryCode) != 2 {
		return errors.New("country code must be two letters")
	}
	return nil
}

// Flight cabin classes.
const (
	ClassEconomy  = "economy"
	ClassBusiness = "business"
	ClassFirst    = "first"
)

type Flight struct {
	DistanceKm float64 `json:"distance"`
	Class      string  `json:"class"`
}

func (Flight) Type() Type { return TypeFlight }

func (f Flight) Validate() error {
	if f.DistanceKm <= 0 {
		return errors.New("flight distance must be positive")
	}
	switch f.Class {
	case ClassEconomy, ClassBusiness, ClassFirst:
		return nil
	default:
		return fmt.Errorf("unknown flight class %q", f.Class)
	}
}

type Food struct {
	FoodType string  `json:"type"`
	WeightKg float64 `json:"weight"`
}

func (Food) Type() Type { return TypeFood }

func (f Food) Validate() error {
	if f.FoodType == "" {
		return errors.New("food type is required")
	}
	if f.WeightKg <= 0 {
		return errors.New("food weight must be positive")
	}
	return nil
}

// LogRequest is the body of POST /api/activities.
type LogRequest struct {
	Date    time.Time
	Details Details
}

// Validate checks the request is complete and the details pass their
// per-type rules.
func (r LogRequest) Validate() error {
	if r.Details == nil {
		return ErrMissingDetails
	}
	if r.Date.IsZero() {
		return errors.New("activity date is required")
	}
	return r.Details.Validate()
}

// MarshalJSON produces the wire shape {type, date, details}.
func (r LogRequest) MarshalJSON() ([]byte, error) {
	if r.Details == nil {
		return nil, ErrMissingDetails
	}
	return json.Marshal(struct {
		Type    Type    `json:"type"`
		Date    string  `json:"date"`
		Details Details `json:"details"`
	}{
		Type:    r.Details.Type(),
		Date:    r.Date.Format("2006-01-02"),
		Details: r.Details,
	})
}

// ParseDetails decodes a details payload for the given type, for callers
// that receive the pair untyped (e.g. flag parsing in the CLI).
func ParseDetails(activityType Type, raw json.RawMessage) (Details, error) {
	switch activityType {
	case TypeCommute:
		var d Commute
		return d, json.Unmarshal(raw, &d)
	case TypeElectricity:
		var d Electricity
		return d, json.Unmarshal(raw, &d)
	case TypeFlight:
		var d Flight
		return d, json.Unmarshal(raw, &d)
	case TypeFood:
		var d Food
		return d, json.Unmarshal(raw, &d)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, activityType)
	}
}
