package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var wednesday = time.Date(2025, time.March, 12, 14, 30, 0, 0, time.UTC)

func TestResolveToday(t *testing.T) {
	r := Resolve(Today, wednesday)
	require.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, 12, r.End.Day())
	require.Equal(t, 23, r.End.Hour())
}

func TestResolveThisWeekStartsMonday(t *testing.T) {
	r := Resolve(ThisWeek, wednesday)
	require.Equal(t, time.Monday, r.Start.Weekday())
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, time.Sunday, r.End.Weekday())
	require.Equal(t, 16, r.End.Day())
}

func TestResolveThisWeekOnSunday(t *testing.T) {
	sunday := time.Date(2025, time.March, 16, 9, 0, 0, 0, time.UTC)
	r := Resolve(ThisWeek, sunday)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, 16, r.End.Day())
}

func TestResolveThisMonth(t *testing.T) {
	r := Resolve(ThisMonth, wednesday)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, 31, r.End.Day())
}

func TestResolveLast30Days(t *testing.T) {
	r := Resolve(Last30Days, wednesday)
	require.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), r.Start)
	require.Equal(t, 12, r.End.Day())
	require.Equal(t, time.March, r.End.Month())
}

func TestResolveUnknownFallsBackToMonth(t *testing.T) {
	require.Equal(t, Resolve(ThisMonth, wednesday), Resolve(Token("lastYear"), wednesday))
	require.Equal(t, Resolve(ThisMonth, wednesday), Resolve(Token(""), wednesday))
}

func TestContainsIsInclusive(t *testing.T) {
	r := Resolve(Today, wednesday)
	require.True(t, r.Contains(r.Start))
	require.True(t, r.Contains(r.End))
	require.False(t, r.Contains(r.Start.Add(-time.Nanosecond)))
	require.False(t, r.Contains(r.End.Add(time.Nanosecond)))
}
