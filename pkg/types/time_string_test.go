package types

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:30")

	next, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:00"), next)

	_, err = ts.AddMinutes(15 * 60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Validate(t *testing.T) {
	assert.NoError(t, TimeString("00:00").Validate())
	assert.NoError(t, TimeString("23:59").Validate())
	assert.ErrorIs(t, TimeString("24:00").Validate(), ErrInvalidTimeString)
	assert.ErrorIs(t, TimeString("9am").Validate(), ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("09:00"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.False(t, TimeString("bad").IsBefore("09:00"))
}

func TestTimeString_On(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	got, err := TimeString("09:15").On(day, loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 15, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:05")))
	assert.Equal(t, TimeString("08:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
