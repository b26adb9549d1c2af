package wfmtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wfm-shifts-connector/models"
)

func TestNormalizer(t *testing.T) {
	tz, err := New("America/New_York")
	require.NoError(t, err)

	t.Run(`unknown zone is rejected`, func(t *testing.T) {
		_, err := New("Mars/Olympus_Mons")
		require.Error(t, err)
	})

	t.Run(`hour-based values round-trip`, func(t *testing.T) {
		utc, err := tz.ToUTC("3/09/2026", "9:30 AM", models.DurationHours)
		require.NoError(t, err)
		require.Equal(t, time.UTC, utc.Location())

		date, clock := tz.ToLocalParts(utc)
		require.Equal(t, "3/09/2026", date)
		require.Equal(t, "9:30 AM", clock)
	})

	t.Run(`half-day anchors at noon`, func(t *testing.T) {
		utc, err := tz.ToUTC("7/04/2026", "", models.DurationHalfDay)
		require.NoError(t, err)
		local := tz.ToLocal(utc)
		require.Equal(t, 12, local.Hour())
		require.Equal(t, 0, local.Minute())
	})

	t.Run(`full-day anchors at midnight`, func(t *testing.T) {
		utc, err := tz.ToUTC("7/04/2026", "", models.DurationFullDay)
		require.NoError(t, err)
		local := tz.ToLocal(utc)
		require.Equal(t, 0, local.Hour())
		require.Equal(t, "7/04/2026", local.Format(DateLayout))
	})

	t.Run(`DST offset is applied per date`, func(t *testing.T) {
		winter, err := tz.ToUTC("1/15/2026", "9:00 AM", models.DurationHours)
		require.NoError(t, err)
		summer, err := tz.ToUTC("7/15/2026", "9:00 AM", models.DurationHours)
		require.NoError(t, err)
		require.Equal(t, 14, winter.Hour()) // EST, UTC-5
		require.Equal(t, 13, summer.Hour()) // EDT, UTC-4
	})

	t.Run(`malformed input errors`, func(t *testing.T) {
		_, err := tz.ToUTC("2026-03-09", "9:30 AM", models.DurationHours)
		require.Error(t, err)
		_, err = tz.ToUTC("3/09/2026", "25:00", models.DurationHours)
		require.Error(t, err)
	})
}

func TestMonthPartitions(t *testing.T) {
	t.Run(`single month`, func(t *testing.T) {
		got, err := MonthPartitions("3/01/2026", "3/28/2026")
		require.NoError(t, err)
		require.Equal(t, []string{"3_2026"}, got)
	})

	t.Run(`span within a year`, func(t *testing.T) {
		got, err := MonthPartitions("3/15/2026", "6/02/2026")
		require.NoError(t, err)
		require.Equal(t, []string{"3_2026", "4_2026", "5_2026", "6_2026"}, got)
	})

	t.Run(`span across a year boundary`, func(t *testing.T) {
		got, err := MonthPartitions("11/20/2026", "2/10/2027")
		require.NoError(t, err)
		require.Equal(t, []string{"11_2026", "12_2026", "1_2027", "2_2027"}, got)
	})

	t.Run(`reversed range errors`, func(t *testing.T) {
		_, err := MonthPartitions("6/01/2026", "3/01/2026")
		require.Error(t, err)
	})
}

func TestPartitionBounds(t *testing.T) {
	first, err := FirstDayInMonth("2_2028")
	require.NoError(t, err)
	require.Equal(t, "2/01/2028", first)

	last, err := LastDayInMonth("2_2028")
	require.NoError(t, err)
	require.Equal(t, "2/29/2028", last) // leap year

	_, err = FirstDayInMonth("13_2026")
	require.Error(t, err)
	_, err = LastDayInMonth("garbage")
	require.Error(t, err)
}
