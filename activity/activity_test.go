package activity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Slayer-Regen/ecoquest-client/activity"
	"github.com/stretchr/testify/require"
)

func TestDetails_Validate(t *testing.T) {
	t.Run("commute", func(t *testing.T) {
		require.NoError(t, activity.Commute{Mode: activity.ModeBike, DistanceKm: 5}.Validate())
		require.Error(t, activity.Commute{Mode: "", DistanceKm: 5}.Validate())
		require.Error(t, activity.Commute{Mode: activity.ModeCar, DistanceKm: 0}.Validate())
	})

	t.Run("electricity", func(t *testing.T) {
		require.NoError(t, activity.Electricity{Kwh: 12, CountryCode: "US"}.Validate())
		require.Error(t, activity.Electricity{Kwh: -1, CountryCode: "US"}.Validate())
		require.Error(t, activity.Electricity{Kwh: 12, CountryCode: "USA"}.Validate())
	})

	t.Run("flight", func(t *testing.T) {
		require.NoError(t, activity.Flight{DistanceKm: 800, Class: activity.ClassEconomy}.Validate())
		require.Error(t, activity.Flight{DistanceKm: 800, Class: "premium"}.Validate())
		require.Error(t, activity.Flight{DistanceKm: 0, Class: activity.ClassFirst}.Validate())
	})

	t.Run("food", func(t *testing.T) {
		require.NoError(t, activity.Food{FoodType: "beef", WeightKg: 0.5}.Validate())
		require.Error(t, activity.Food{FoodType: "", WeightKg: 0.5}.Validate())
		require.Error(t, activity.Food{FoodType: "beef", WeightKg: 0}.Validate())
	})
}

func TestLogRequest_Validate(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.ErrorIs(t, activity.LogRequest{Date: date}.Validate(), activity.ErrMissingDetails)
	require.Error(t, activity.LogRequest{Details: activity.Commute{Mode: activity.ModeBus, DistanceKm: 3}}.Validate())
	require.NoError(t, activity.LogRequest{
		Date:    date,
		Details: activity.Commute{Mode: activity.ModeBus, DistanceKm: 3},
	}.Validate())
}

func TestLogRequest_MarshalJSON(t *testing.T) {
	req := activity.LogRequest{
		Date:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Details: activity.Flight{DistanceKm: 1200, Class: activity.ClassBusiness},
	}

	encoded, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type": "flight",
		"date": "2025-06-01",
		"details": {"distance": 1200, "class": "business"}
	}`, string(encoded))
}

func TestParseDetails(t *testing.T) {
	details, err := activity.ParseDetails(activity.TypeElectricity, []byte(`{"kwh": 9.5, "countryCode": "DE"}`))
	require.NoError(t, err)
	require.Equal(t, activity.Electricity{Kwh: 9.5, CountryCode: "DE"}, details)

	_, err = activity.ParseDetails("sailing", []byte(`{}`))
	require.ErrorIs(t, err, activity.ErrUnknownType)
}
