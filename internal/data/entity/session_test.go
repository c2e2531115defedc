package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SortedDatesDoesNotMutate(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	s := &Session{Dates: []SessionDate{
		{Start: base.Add(24 * time.Hour)},
		{Start: base},
	}}

	sorted := s.SortedDates()
	assert.Equal(t, base, sorted[0].Start)
	assert.Equal(t, base.Add(24*time.Hour), s.Dates[0].Start)
	assert.Equal(t, base, s.EarliestStart())
	assert.True(t, (&Session{}).EarliestStart().IsZero())
}

func TestSession_Cost(t *testing.T) {
	normal, discount := 120.0, 80.0
	s := &Session{NormalCost: &normal, DiscountCost: &discount}
	code := "STAFF"
	empty := ""

	assert.Equal(t, 120.0, *s.Cost(nil))
	assert.Equal(t, 120.0, *s.Cost(&empty))
	assert.Equal(t, 80.0, *s.Cost(&code))
}

func TestSession_CostUnset(t *testing.T) {
	code := "STAFF"
	normal := 0.0

	assert.Nil(t, (&Session{}).Cost(nil))
	assert.Nil(t, (&Session{}).Cost(&code))

	free := &Session{NormalCost: &normal}
	require.NotNil(t, free.Cost(&code))
	assert.Equal(t, 0.0, *free.Cost(&code))
}
