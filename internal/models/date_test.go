package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_TruncatesToUTCMidnight(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	d := DateOf(time.Date(2024, time.March, 1, 23, 45, 0, 0, zone))

	assert.Equal(t, "2024-03-01", d.String())
	assert.Equal(t, time.UTC, d.Time().Location())
	assert.Zero(t, d.Time().Hour())
	assert.True(t, d.Equal(NewDate(2024, time.March, 1)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-02", d.MonthKey())
	assert.True(t, d.Before(NewDate(2024, time.March, 1)))
	assert.True(t, d.After(NewDate(2024, time.February, 28)))

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Set   Date `json:"set"`
		Unset Date `json:"unset"`
	}{Set: NewDate(2024, time.June, 15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":"2024-06-15","unset":""}`, string(b))

	var got Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-06-15"`), &got))
	assert.True(t, got.Equal(NewDate(2024, time.June, 15)))

	require.NoError(t, json.Unmarshal([]byte(`""`), &got))
	assert.True(t, got.IsZero())
}
