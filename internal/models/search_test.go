package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in   string
		want SortOrder
	}{
		{"", OrderDate},
		{"date", OrderDate},
		{"name", OrderName},
		{"Title", OrderTitle},
		{" venue ", OrderVenue},
		{"LOCATION", OrderLocation},
		{"popularity", OrderDate},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSortOrder(tt.in))
		})
	}
}

func TestSearchOptions_Validate(t *testing.T) {
	assert.NoError(t, SearchOptions{}.Validate(500))
	assert.NoError(t, SearchOptions{Limit: 500}.Validate(500))
	assert.NoError(t, SearchOptions{Limit: 10000}.Validate(0))

	err := SearchOptions{Limit: -1}.Validate(500)
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidLimit, errors.Cause(err))

	err = SearchOptions{Limit: 501}.Validate(500)
	assert.Equal(t, ErrInvalidLimit, errors.Cause(err))
}

func TestSearchOptions_EffectiveLimit(t *testing.T) {
	assert.Equal(t, 50, SearchOptions{}.EffectiveLimit(0))
	assert.Equal(t, 20, SearchOptions{}.EffectiveLimit(20))
	assert.Equal(t, 3, SearchOptions{Limit: 3}.EffectiveLimit(20))
}
