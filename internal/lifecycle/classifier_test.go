package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultWindowDays)

	tests := []struct {
		name  string
		end   string
		today string
		want  Status
	}{
		{"missing end date", "", "2024-01-15", Active},
		{"unparseable end date", "31.12.2024", "2024-01-15", Active},
		{"fourteen days left", "2024-01-15", "2024-01-01", ExpiringSoon},
		{"ended two weeks ago", "2024-01-01", "2024-01-15", Expired},
		{"ended two months ago", "2024-01-01", "2024-03-01", Expired},
		{"a year left", "2025-01-01", "2024-01-01", Active},
		{"ends today", "2024-06-10", "2024-06-10", ExpiringSoon},
		{"ended yesterday", "2024-06-09", "2024-06-10", Expired},
		{"exactly thirty days", "2024-07-10", "2024-06-10", ExpiringSoon},
		{"thirty one days", "2024-07-11", "2024-06-10", Active},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.end, day(tt.today)))
		})
	}
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	c := NewClassifier(30)
	lateEvening := time.Date(2024, time.June, 10, 23, 59, 0, 0, time.FixedZone("TRT", 3*3600))
	assert.Equal(t, ExpiringSoon, c.Classify("2024-06-10", lateEvening))
	assert.Equal(t, Expired, c.Classify("2024-06-09", lateEvening))
}

func TestClassify_CustomWindow(t *testing.T) {
	c := NewClassifier(7)
	assert.Equal(t, 7, c.WindowDays())
	assert.Equal(t, ExpiringSoon, c.Classify("2024-01-08", day("2024-01-01")))
	assert.Equal(t, Active, c.Classify("2024-01-09", day("2024-01-01")))
}

func TestNewClassifier_DefaultWindow(t *testing.T) {
	assert.Equal(t, DefaultWindowDays, NewClassifier(0).WindowDays())
	assert.Equal(t, DefaultWindowDays, NewClassifier(-3).WindowDays())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 14, DaysBetween(day("2024-01-01"), day("2024-01-15")))
	assert.Equal(t, -14, DaysBetween(day("2024-01-15"), day("2024-01-01")))
	// across the leap day
	assert.Equal(t, 2, DaysBetween(day("2024-02-28"), day("2024-03-01")))
}

func TestGroup_PreservesOrder(t *testing.T) {
	type policy struct {
		id  int
		end string
	}
	items := []policy{
		{1, "2030-01-01"},
		{2, "2024-01-01"},
		{3, ""},
		{4, "2024-06-20"},
		{5, "2023-05-05"},
		{6, "2024-06-11"},
	}

	b := Group(NewClassifier(30), items, day("2024-06-10"), func(p policy) string { return p.end })

	ids := func(ps []policy) []int {
		out := []int{}
		for _, p := range ps {
			out = append(out, p.id)
		}
		return out
	}

	assert.Equal(t, []int{1, 3}, ids(b.Active))
	assert.Equal(t, []int{4, 6}, ids(b.ExpiringSoon))
	assert.Equal(t, []int{2, 5}, ids(b.Expired))
	assert.Equal(t, 6, b.Len())
	assert.Equal(t, b.Expired, b.Of(Expired))
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "expiring_soon", ExpiringSoon.String())
	assert.Equal(t, "expired", Expired.String())
	assert.Equal(t, "Süresi Bitenler", Expired.Label())
}
