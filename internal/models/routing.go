package models

import "database/sql"

// Route is the resolved ownership chain for a chatroom: chatroom -> sender
// number -> provider account. Links are left-joined so the router can name
// the first missing one instead of failing opaquely.
type Route struct {
	ChatroomID     int64          `db:"chatroom_id"`
	ChatroomName   string         `db:"chatroom_name"`
	ChatroomActive bool           `db:"chatroom_active"`
	SenderNumberID sql.NullInt64  `db:"sender_number_id"`
	FromNumber     sql.NullString `db:"from_number"`
	ChannelType    sql.NullString `db:"channel_type"`
	SenderActive   sql.NullBool   `db:"sender_active"`
	ProviderID     sql.NullInt64  `db:"provider_id"`
	ProviderKind   sql.NullString `db:"provider_kind"`
	ProviderActive sql.NullBool   `db:"provider_active"`
	Credentials    CredentialsMap `db:"credentials"`
}

// AssignmentThread is a client assignment joined with its line and contact,
// enough to authorize and route a mini-chatroom send.
type AssignmentThread struct {
	AssignmentID  int64          `db:"assignment_id"`
	ContactID     int64          `db:"contact_id"`
	ContactNumber string         `db:"contact_number"`
	ContactName   string         `db:"contact_name"`
	LineID        int64          `db:"line_id"`
	LineUserID    string         `db:"line_user_id"`
	LineNumber    string         `db:"line_number"`
	LineActive    bool           `db:"line_active"`
	ChatroomID    sql.NullInt64  `db:"chatroom_id"`
	ContactEmail  sql.NullString `db:"contact_email"`
}
