package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTariffUploadUnmarshal(t *testing.T) {
	t.Run("ValidPayload", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"2024-01-01": [{"cargo_type": "Glass", "rate": 10.5}]}`), &upload)
		require.NoError(t, err)

		key := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.Contains(t, upload.Data, key)
		require.Len(t, upload.Data[key], 1)
		assert.Equal(t, "Glass", upload.Data[key][0].CargoType)
		assert.InDelta(t, 10.5, upload.Data[key][0].Rate, 0.001)
	})

	t.Run("MultipleDates", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"2024-01-01": [{"cargo_type": "A", "rate": 1}], "2024-01-02": [{"cargo_type": "B", "rate": 2}, {"cargo_type": "C", "rate": 3}]}`), &upload)
		require.NoError(t, err)
		assert.Len(t, upload.Data, 2)
	})

	t.Run("InvalidMonthRejected", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"2024-13-01": [{"cargo_type": "A", "rate": 1}]}`), &upload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2024-13-01")
	})

	t.Run("WrongLayoutRejected", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"01-01-2024": [{"cargo_type": "A", "rate": 1}]}`), &upload)
		require.Error(t, err)
	})

	t.Run("ZeroRateRejected", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"2024-01-01": [{"cargo_type": "A", "rate": 0}]}`), &upload)
		require.Error(t, err)
	})

	t.Run("NegativeRateRejected", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"2024-01-01": [{"cargo_type": "A", "rate": -4.2}]}`), &upload)
		require.Error(t, err)
	})

	t.Run("MissingCargoTypeRejected", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"2024-01-01": [{"rate": 1.5}]}`), &upload)
		require.Error(t, err)
	})

	t.Run("OneBadKeyRejectsWholePayload", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`{"2024-01-01": [{"cargo_type": "A", "rate": 1}], "bogus": [{"cargo_type": "B", "rate": 2}]}`), &upload)
		require.Error(t, err)
		assert.Nil(t, upload.Data)
	})

	t.Run("NotAnObjectRejected", func(t *testing.T) {
		var upload TariffUpload
		err := json.Unmarshal([]byte(`[1, 2, 3]`), &upload)
		require.Error(t, err)
	})
}

func TestDateValueUnmarshal(t *testing.T) {
	t.Run("DateOnly", func(t *testing.T) {
		var d DateValue
		require.NoError(t, json.Unmarshal([]byte(`"2024-01-01"`), &d))
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d.Time)
	})

	t.Run("RFC3339", func(t *testing.T) {
		var d DateValue
		require.NoError(t, json.Unmarshal([]byte(`"2024-01-01T15:04:05Z"`), &d))
		assert.Equal(t, 2024, d.Year())
		assert.Equal(t, 15, d.Hour())
	})

	t.Run("GarbageRejected", func(t *testing.T) {
		var d DateValue
		require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	})

	t.Run("MarshalDropsTime", func(t *testing.T) {
		d := DateValue{Time: time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC)}
		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2024-01-01"`, string(b))
	})
}
