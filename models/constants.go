package models

// Interaction kinds. A given (actor, target) pair holds at most one
// active kind at any time; the match service enforces the transitions.
const (
	InteractionKindLike    = "like"
	InteractionKindPass    = "pass"
	InteractionKindMatch   = "match"
	InteractionKindUnmatch = "unmatch"
)

// TerminalKinds block any new like/pass on a pair until an explicit reset.
var TerminalKinds = []string{InteractionKindMatch, InteractionKindPass, InteractionKindUnmatch}

// Time slots of a one-day itinerary, in their fixed output order.
const (
	SlotMorning   = "Morning"
	SlotAfternoon = "Afternoon"
	SlotEvening   = "Evening"
)

var TimeSlots = []string{SlotMorning, SlotAfternoon, SlotEvening}

// DynamoDB table names
const (
	UserProfilesTable = "UserProfiles"
	InteractionsTable = "Interactions"
	ChatsTable        = "Chats"
	MessagesTable     = "Messages"
	TripsTable        = "Trips"
)
