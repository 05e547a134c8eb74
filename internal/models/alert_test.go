package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStringSlice_Intersects(t *testing.T) {
	require.True(t, StringSlice{"a", "b"}.Intersects(StringSlice{"b", "c"}))
	require.False(t, StringSlice{"a"}.Intersects(StringSlice{"x"}))
	require.False(t, StringSlice{}.Intersects(StringSlice{"x"}))
	require.False(t, StringSlice{}.Intersects(StringSlice{}))
}

func TestStringSlice_RoundTrip(t *testing.T) {
	original := StringSlice{"crop-1", "crop-2"}
	value, err := original.Value()
	require.NoError(t, err)

	var decoded StringSlice
	require.NoError(t, decoded.Scan(value))
	require.Equal(t, original, decoded)

	var fromNil StringSlice
	require.NoError(t, fromNil.Scan(nil))
	require.Nil(t, fromNil)
}

func TestAlert_RelatedEntityIDs(t *testing.T) {
	a := &Alert{
		RelatedCrops:     StringSlice{"c-1"},
		RelatedLivestock: StringSlice{"l-1", "l-2"},
		RelatedTasks:     StringSlice{"t-1"},
	}
	require.ElementsMatch(t, []string{"c-1", "l-1", "l-2", "t-1"}, a.RelatedEntityIDs())
	require.Empty(t, (&Alert{}).RelatedEntityIDs())
}

func TestAlertStatus_Classification(t *testing.T) {
	for _, status := range []AlertStatus{AlertStatusActive, AlertStatusAcknowledged, AlertStatusInProgress} {
		require.True(t, status.IsOpen(), "status %s", status)
		require.False(t, status.IsTerminal(), "status %s", status)
	}
	for _, status := range []AlertStatus{AlertStatusResolved, AlertStatusDismissed, AlertStatusExpired} {
		require.True(t, status.IsTerminal(), "status %s", status)
		require.False(t, status.IsOpen(), "status %s", status)
	}
}

func TestAlert_IsExpiredAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	require.False(t, (&Alert{}).IsExpiredAt(now))
	require.True(t, (&Alert{ExpiresAt: &past}).IsExpiredAt(now))
	require.False(t, (&Alert{ExpiresAt: &future}).IsExpiredAt(now))
}

func TestUser_PasswordHashing(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("s3cret"))
	require.NotEqual(t, "s3cret", user.Password)
	require.True(t, user.CheckPassword("s3cret"))
	require.False(t, user.CheckPassword("wrong"))
}

func TestUser_ChannelPreferences(t *testing.T) {
	user := &User{NotifyEmail: true, NotifySMS: false, NotifyPush: true}
	prefs := user.ChannelPreferences()
	require.True(t, prefs["email"])
	require.False(t, prefs["sms"])
	require.True(t, prefs["push"])
}
