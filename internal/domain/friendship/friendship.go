package friendship

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the state of a friendship request
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Friendship is a directed request that becomes a symmetric relation once accepted
type Friendship struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID `json:"requester_id" gorm:"type:uuid;not null;index"`
	AddresseeID uuid.UUID `json:"addressee_id" gorm:"type:uuid;not null;index"`
	// PairKey identifies the unordered pair so only one row exists per two users
	PairKey   string    `json:"-" gorm:"type:varchar(73);not null;uniqueIndex"`
	Status    Status    `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate sets the UUID and the pair key before creating the record
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.PairKey = PairKey(f.RequesterID, f.AddresseeID)
	return nil
}

// PairKey is the order-independent key of two users
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// NewRequest creates a pending request from requester to addressee
func NewRequest(requesterID, addresseeID uuid.UUID) (*Friendship, error) {
	if requesterID == uuid.Nil || addresseeID == uuid.Nil {
		return nil, fmt.Errorf("requester and addressee are required")
	}
	if requesterID == addresseeID {
		return nil, fmt.Errorf("cannot send a friend request to yourself")
	}
	return &Friendship{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		PairKey:     PairKey(requesterID, addresseeID),
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

// Involves reports whether userID is one side of the friendship
func (f *Friendship) Involves(userID uuid.UUID) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// Other returns the side of the friendship that is not userID
func (f *Friendship) Other(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Respond moves a pending request to accepted or rejected. Only the addressee may respond.
func (f *Friendship) Respond(userID uuid.UUID, accept bool) error {
	if f.AddresseeID != userID {
		return fmt.Errorf("only the addressee can respond to a friend request")
	}
	if f.Status != StatusPending {
		return fmt.Errorf("friend request is already %s", f.Status)
	}
	if accept {
		f.Status = StatusAccepted
	} else {
		f.Status = StatusRejected
	}
	return nil
}

// RelationStatus is how one user sees another
type RelationStatus string

const (
	RelationNone            RelationStatus = "none"
	RelationFriends         RelationStatus = "friends"
	RelationPendingSent     RelationStatus = "pending_sent"
	RelationPendingReceived RelationStatus = "pending_received"
	RelationRejected        RelationStatus = "rejected"
)

// RelationFor describes f from viewerID's side; a nil friendship is RelationNone
func RelationFor(f *Friendship, viewerID uuid.UUID) RelationStatus {
	if f == nil || !f.Involves(viewerID) {
		return RelationNone
	}
	switch f.Status {
	case StatusAccepted:
		return RelationFriends
	case StatusRejected:
		return RelationRejected
	default:
		if f.RequesterID == viewerID {
			return RelationPendingSent
		}
		return RelationPendingReceived
	}
}
