package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldquote/backend/internal/models"
)

var now = time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC)

func TestTimestampsAreRelative(t *testing.T) {
	all := New(now).ByType("")
	require.Len(t, all, 8)

	assert.Equal(t, "notif-1", all[0].ID)
	assert.Equal(t, now.Add(-2*time.Hour), all[0].Timestamp)
	assert.Equal(t, "notif-8", all[7].ID)
	assert.Equal(t, now.Add(-7*24*time.Hour), all[7].Timestamp)
}

func TestByType(t *testing.T) {
	in := New(now)

	tests := map[models.NotificationType][]string{
		models.NotificationQuote:       {"notif-1", "notif-7"},
		models.NotificationChangeOrder: {"notif-2", "notif-5"},
		models.NotificationBudget:      {"notif-3", "notif-6"},
		models.NotificationSystem:      {"notif-4", "notif-8"},
	}
	for typ, want := range tests {
		var got []string
		for _, n := range in.ByType(typ) {
			got = append(got, n.ID)
		}
		assert.Equal(t, want, got, string(typ))
	}
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"", "all"} {
		typ, err := ParseType(s)
		require.NoError(t, err)
		assert.Empty(t, typ)
	}

	typ, err := ParseType("change_order")
	require.NoError(t, err)
	assert.Equal(t, models.NotificationChangeOrder, typ)

	_, err = ParseType("email")
	assert.True(t, errors.Is(err, models.ErrNotValid))
}

func TestCountsAfterMarkRead(t *testing.T) {
	in := New(now)

	c := in.Counts()
	assert.Equal(t, 8, c.Total)
	assert.Equal(t, 3, c.Unread)
	assert.Equal(t, 2, c.ByType[models.NotificationBudget])

	n, err := in.MarkRead("notif-2")
	require.NoError(t, err)
	assert.True(t, n.Read)

	_, err = in.MarkRead("notif-2")
	require.NoError(t, err)

	assert.Equal(t, 2, in.Counts().Unread)
	assert.Len(t, in.Unread(), 2)

	_, err = in.MarkRead("notif-99")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestMarkAllRead(t *testing.T) {
	in := New(now)

	assert.Equal(t, 3, in.MarkAllRead())
	assert.Equal(t, 0, in.MarkAllRead())
	assert.Empty(t, in.Unread())
	assert.Equal(t, 8, in.Counts().Total)
}
