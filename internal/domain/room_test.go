package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoom() *Room {
	return &Room{
		Code:   "ROOM01",
		HostId: 1,
		Participants: []*Participant{
			{UserId: 1, UserName: "alice", ConnectionId: "conn-1", IsHost: true},
			{UserId: 2, UserName: "bob", ConnectionId: "conn-2"},
			{UserId: 3, UserName: "carol", ConnectionId: "conn-3"},
		},
		Queue: []Track{
			{Id: 1, Title: "First"},
			{Id: 2, Title: "Second"},
		},
	}
}

func TestRemoveParticipantPreservesOrder(t *testing.T) {
	r := testRoom()

	removed := r.RemoveParticipant(2)
	require.NotNil(t, removed)
	assert.Equal(t, "bob", removed.UserName)

	require.Len(t, r.Participants, 2)
	assert.Equal(t, "alice", r.Participants[0].UserName)
	assert.Equal(t, "carol", r.Participants[1].UserName)

	assert.Nil(t, r.RemoveParticipant(99))
}

func TestCurrentTrackOutOfBounds(t *testing.T) {
	r := testRoom()

	r.CurrentTrackIndex = 1
	track, ok := r.CurrentTrack()
	require.True(t, ok)
	assert.Equal(t, "Second", track.Title)

	r.CurrentTrackIndex = 5
	_, ok = r.CurrentTrack()
	assert.False(t, ok)

	r.CurrentTrackIndex = -1
	_, ok = r.CurrentTrack()
	assert.False(t, ok)
}

func TestBufferingUsers(t *testing.T) {
	r := testRoom()

	assert.True(t, r.AddBufferingUser("bob"))
	assert.False(t, r.AddBufferingUser("bob"), "duplicate add must not change the set")
	assert.Equal(t, []string{"bob"}, r.BufferingUsers)

	assert.True(t, r.RemoveBufferingUser("bob"))
	assert.False(t, r.RemoveBufferingUser("bob"))
	assert.Empty(t, r.BufferingUsers)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	r := testRoom()
	snapshot := r.Snapshot()

	snapshot.Participants[0].UserName = "mallory"
	snapshot.Queue[0].Title = "tampered"
	snapshot.BufferingUsers = append(snapshot.BufferingUsers, "ghost")

	assert.Equal(t, "alice", r.Participants[0].UserName)
	assert.Equal(t, "First", r.Queue[0].Title)
	assert.Empty(t, r.BufferingUsers)
}
