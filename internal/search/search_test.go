package search

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/eventcal/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokens(t *testing.T) {
	assert.Empty(t, Tokens(""))
	assert.Empty(t, Tokens("  \t\n "))
	assert.Equal(t, []string{"jazz", "blues"}, Tokens("  Jazz\tBLUES "))
	// Decomposed and composed forms end up identical
	assert.Equal(t, Tokens("caf\u00e9"), Tokens("cafe\u0301"))
}

func TestBase(t *testing.T) {
	sql, args := Base().SQL()
	assert.Empty(t, args)
	assert.True(t, strings.HasPrefix(sql, "SELECT Events.id, Events.title"))
	assert.Contains(t, sql, "FROM Events LEFT OUTER JOIN Venues ON Venues.id = Events.venueId")
	assert.Contains(t, sql, "LEFT OUTER JOIN Taggings ON Taggings.eventId = Events.id")
	assert.Contains(t, sql, "LEFT OUTER JOIN Tags ON Tags.id = Taggings.tagId")
	assert.True(t, strings.HasSuffix(sql, "GROUP BY Events.id, Venues.id"))
	assert.NotContains(t, sql, "WHERE")
	assert.NotContains(t, sql, "LIMIT")
}

func TestKeywords_Empty(t *testing.T) {
	s := Base().Apply(Keywords("   "))
	assert.Empty(t, s.Conditions())
}

func TestKeywords_OrAcrossTokens(t *testing.T) {
	s := Base().Apply(Keywords("Jazz blues"))
	conds := s.Conditions()
	require.Len(t, conds, 1)
	assert.Equal(t, 7, strings.Count(conds[0].SQL, " OR "))
	assert.NotContains(t, conds[0].SQL, " AND ")
	assert.Equal(t, []interface{}{
		"%jazz%", "%jazz%", "%jazz%", "jazz",
		"%blues%", "%blues%", "%blues%", "blues",
	}, conds[0].Args)
}

func TestKeywords_EscapesWildcards(t *testing.T) {
	conds := Base().Apply(Keywords(`100%_a\b`)).Conditions()
	require.Len(t, conds, 1)
	assert.Equal(t, `%100\%\_a\\b%`, conds[0].Args[0])
	assert.Equal(t, `100%_a\b`, conds[0].Args[3])
}

func TestStaleCutoff(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2026, 3, 1, 15, 4, 5, 0, loc)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, loc), StaleCutoff(now))
}

func TestSkipOld(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	assert.Empty(t, Base().Apply(SkipOld(false, now)).Conditions())

	conds := Base().Apply(SkipOld(true, now)).Conditions()
	require.Len(t, conds, 1)
	assert.Equal(t, "Events.startTime >= ?", conds[0].SQL)
	assert.Equal(t, []interface{}{time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)}, conds[0].Args)
}

func TestOrder(t *testing.T) {
	tests := []struct {
		order models.SortOrder
		want  string
	}{
		{"", "Events.startTime DESC"},
		{models.OrderDate, "Events.startTime DESC"},
		{models.OrderName, "LOWER(Events.title) ASC"},
		{models.OrderTitle, "LOWER(Events.title) ASC"},
		{models.OrderVenue, "LOWER(Venues.title) ASC"},
		{"Location", "LOWER(Venues.title) ASC"},
		{"rating", "Events.startTime DESC"},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			s := Base().Apply(Order(tt.order))
			assert.Equal(t, []string{tt.want, "Events.id ASC"}, s.Ordering())
		})
	}
}

func TestScope_StagesDoNotShareState(t *testing.T) {
	base := Base().Where("1 = 1")
	a := base.Apply(Keywords("jazz"))
	b := base.Apply(SkipOld(true, time.Now()))

	assert.Len(t, base.Conditions(), 1)
	require.Len(t, a.Conditions(), 2)
	require.Len(t, b.Conditions(), 2)
	assert.Contains(t, a.Conditions()[1].SQL, "LIKE")
	assert.Equal(t, "Events.startTime >= ?", b.Conditions()[1].SQL)
}

func TestBuilder_Build(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	b := Builder{Now: fixedClock(now), MaxLimit: 100}

	s, err := b.Build("jazz", models.SearchOptions{Order: models.OrderVenue, Limit: 2, SkipOld: true})
	require.NoError(t, err)
	sql, args := s.SQL()
	assert.Contains(t, sql, " WHERE (LOWER(Events.title) LIKE ?")
	assert.Contains(t, sql, ") AND (Events.startTime >= ?)")
	assert.True(t, strings.HasSuffix(sql, "GROUP BY Events.id, Venues.id ORDER BY LOWER(Venues.title) ASC, Events.id ASC LIMIT ?"))
	require.Len(t, args, 6)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), args[4])
	assert.Equal(t, 2, args[5])
}

func TestBuilder_DefaultLimit(t *testing.T) {
	s, err := Builder{}.Build("", models.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSearchLimit, s.MaxRows())

	s, err = Builder{DefaultLimit: 10}.Build("", models.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 10, s.MaxRows())
}

func TestBuilder_RejectsInvalidLimit(t *testing.T) {
	_, err := Builder{}.Build("jazz", models.SearchOptions{Limit: -5})
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidLimit, errors.Cause(err))

	_, err = Builder{MaxLimit: 10}.Build("jazz", models.SearchOptions{Limit: 11})
	assert.Equal(t, models.ErrInvalidLimit, errors.Cause(err))
}
