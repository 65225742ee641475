package domain

import "time"

// Audience selects which room connections receive an event.
type Audience int

const (
	// AudienceSender delivers only to the connection that issued the command.
	AudienceSender Audience = iota
	// AudienceRoom delivers to every connection in the room, sender included.
	AudienceRoom
	// AudienceRoomExceptSender delivers to every connection but the sender.
	AudienceRoomExceptSender
)

// Event is a single outbound message produced by a state transition. The
// synchronization engine returns events, the broadcast dispatcher resolves the
// audience to live connections.
type Event struct {
	Type     string
	Payload  any
	Audience Audience
	// Delay postpones delivery, used to let a late joiner finish mounting its
	// player before the catch-up events arrive.
	Delay time.Duration
}

// Outbound event types.
const (
	EventRoomState             = "room-state"
	EventParticipantsUpdated   = "participants-updated"
	EventSyncPlay              = "sync-play"
	EventSyncPause             = "sync-pause"
	EventSyncTrackChange       = "sync-track-change"
	EventQueueUpdated          = "queue-updated"
	EventVolumeChanged         = "volume-changed"
	EventShuffleToggled        = "shuffle-toggled"
	EventRepeatChanged         = "repeat-changed"
	EventTabChanged            = "tab-changed"
	EventVideoChanged          = "video-changed"
	EventVideoQueueUpdated     = "video-queue-updated"
	EventSyncVideoTimestamp    = "sync-video-timestamp"
	EventBufferingStatusUpdate = "buffering-status-update"
	EventHostChanged           = "host-changed"
	EventChatMessage           = "chat-message"
	EventReactionAdded         = "reaction-added"
	EventError                 = "error"
)
