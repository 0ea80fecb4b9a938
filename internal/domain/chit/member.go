package chit

import (
	"time"

	"github.com/chitfund/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GroupMember links a user to a chit group
type GroupMember struct {
	shared.BaseAggregateRoot
	GroupID      uuid.UUID
	UserID       uuid.UUID
	JoinDate     time.Time
	NomineeName  string
	NomineePhone string
	WonStatus    bool
}

// NewGroupMember creates a new group membership
func NewGroupMember(groupID, userID uuid.UUID, joinDate time.Time) (*GroupMember, error) {
	if groupID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GROUP", "Group ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &GroupMember{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GroupID:           groupID,
		UserID:            userID,
		JoinDate:          joinDate,
	}, nil
}

// WithNominee sets the nominee details for the membership
func (m *GroupMember) WithNominee(name, phone string) *GroupMember {
	m.NomineeName = name
	m.NomineePhone = phone
	return m
}

// HasWon returns true if this member has already won an auction in the group.
// Winners are conventionally excluded from later bidding, but the settlement
// engine does not enforce the exclusion; callers may filter on this flag.
func (m *GroupMember) HasWon() bool {
	return m.WonStatus
}

// MarkWon flags the member as having won an auction in this group
func (m *GroupMember) MarkWon() {
	m.WonStatus = true
	m.UpdatedAt = time.Now()
}

// ClearWon removes the winner flag, used when a re-resolution names a
// different winner
func (m *GroupMember) ClearWon() {
	m.WonStatus = false
	m.UpdatedAt = time.Now()
}
