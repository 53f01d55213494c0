package core

import "encoding/json"

// Inbound event names. The legacy pair is kept for old clients with
// reduced semantics and must not grow new fields.
const (
	EvJoinRoom     = "joinRoom"
	EvLeaveRoom    = "leaveRoom"
	EvSendMessage  = "sendMessage"
	EvShareFile    = "shareFile"
	EvTyping       = "typing"
	EvOffer        = "offer"
	EvAnswer       = "answer"
	EvICECandidate = "ice-candidate"
	EvRequestUsers = "request-users"

	EvLegacyJoin = "join-room"
	EvLegacySend = "send-message"
)

// Outbound event names.
const (
	EvUserJoined       = "userJoined"
	EvUserLeft         = "userLeft"
	EvParticipantsList = "participantsList"
	EvNewMessage       = "newMessage"
	EvFileShared       = "fileShared"
	EvUserTyping       = "userTyping"
	EvExistingUsers    = "existing-users"

	EvLegacyUserJoined = "user-joined"
	EvLegacyReceive    = "receive-message"
)

// Envelope is the wire frame shared by both directions: a tagged event
// plus its payload, which stays raw until the handler for that tag
// decides how to read it.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode marshals an outbound event into a Frame. Payloads are encoded
// once per relay call, not once per recipient.
func Encode(event string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: event, Data: raw})
}
