package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/friendship"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/realtime"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// FriendService manages friend requests and friendships
type FriendService struct {
	repos    postgres.RepositoryContainer
	notifier Notifier
	log      *log.Logger
}

// NewFriendService creates a new friend service
func NewFriendService(repos postgres.RepositoryContainer, notifier Notifier) *FriendService {
	return &FriendService{
		repos:    repos,
		notifier: notifier,
		log:      logger.Service("friend"),
	}
}

// FriendRequest is the body of a new friend request
type FriendRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// RequestView is a pending request together with the other user
type RequestView struct {
	*friendship.Friendship
	User common.SharedProfile `json:"user"`
}

// PendingRequests splits pending requests by direction
type PendingRequests struct {
	Received []RequestView `json:"received"`
	Sent     []RequestView `json:"sent"`
}

// SendRequest asks addresseeID to become requesterID's friend. A previously
// rejected request is replaced by the new one.
func (s *FriendService) SendRequest(ctx context.Context, requesterID uuid.UUID, req FriendRequest) (*friendship.Friendship, error) {
	addresseeID, err := validation.ParseUUID(req.UserID, "user_id")
	if err != nil {
		return nil, err
	}
	f, err := friendship.NewRequest(requesterID, addresseeID)
	if err != nil {
		return nil, validation.Invalid(err)
	}
	if _, err := s.repos.Profiles().GetByID(ctx, addresseeID); err != nil {
		return nil, err
	}

	existing, err := s.repos.Friendships().GetBetween(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case friendship.StatusAccepted:
			return nil, common.NewConflictError("you are already friends")
		case friendship.StatusPending:
			return nil, common.NewConflictError("a friend request is already pending")
		}
	}

	err = s.repos.WithTransaction(ctx, func(tx postgres.RepositoryContainer) error {
		if existing != nil {
			if err := tx.Friendships().Delete(ctx, existing.ID); err != nil {
				return err
			}
		}
		return tx.Friendships().Create(ctx, f)
	})
	if err != nil {
		if common.IsKind(err, common.KindConflict) {
			return nil, common.NewConflictError("a friend request is already pending")
		}
		return nil, err
	}

	s.log.Info("Friend request sent", "friendship_id", f.ID, "requester_id", requesterID, "addressee_id", addresseeID)
	s.notifier.SendToUser(addresseeID, realtime.EventFriendRequest, f)
	record(ctx, s.repos, s.log, activity.NewEntry(requesterID, activity.ActionFriendRequested, "friendship", f.ID, ""))
	return f, nil
}

// Respond accepts or rejects a request addressed to userID
func (s *FriendService) Respond(ctx context.Context, userID, requestID uuid.UUID, accept bool) (*friendship.Friendship, error) {
	f, err := s.repos.Friendships().GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !f.Involves(userID) {
		return nil, common.NewNotFoundError("friend request", requestID)
	}
	if f.AddresseeID != userID {
		return nil, common.NewForbiddenError("only the addressee can respond to a friend request")
	}
	if err := f.Respond(userID, accept); err != nil {
		return nil, common.NewConflictError(err.Error())
	}
	if err := s.repos.Friendships().UpdateStatus(ctx, f.ID, f.Status); err != nil {
		return nil, err
	}

	s.log.Info("Friend request answered", "friendship_id", f.ID, "status", f.Status)
	if accept {
		s.notifier.SendToUser(f.RequesterID, realtime.EventFriendAccepted, f)
		record(ctx, s.repos, s.log, activity.NewEntry(userID, activity.ActionFriendAccepted, "friendship", f.ID, ""))
	}
	return f, nil
}

// Cancel withdraws a pending request sent by userID
func (s *FriendService) Cancel(ctx context.Context, userID, requestID uuid.UUID) error {
	f, err := s.repos.Friendships().GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if f.RequesterID != userID {
		return common.NewNotFoundError("friend request", requestID)
	}
	if f.Status != friendship.StatusPending {
		return common.NewConflictError("friend request is already " + string(f.Status))
	}
	return s.repos.Friendships().Delete(ctx, f.ID)
}

// Remove ends the friendship between userID and friendID
func (s *FriendService) Remove(ctx context.Context, userID, friendID uuid.UUID) error {
	f, err := s.repos.Friendships().GetBetween(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if f == nil || f.Status != friendship.StatusAccepted {
		return common.NewNotFoundError("friend", friendID)
	}
	if err := s.repos.Friendships().Delete(ctx, f.ID); err != nil {
		return err
	}

	s.log.Info("Friend removed", "user_id", userID, "friend_id", friendID)
	record(ctx, s.repos, s.log, activity.NewEntry(userID, activity.ActionFriendRemoved, "profile", friendID, ""))
	return nil
}

// Friends lists the accepted friends of userID
func (s *FriendService) Friends(ctx context.Context, userID uuid.UUID) ([]common.SharedProfile, error) {
	accepted, err := s.repos.Friendships().ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(accepted))
	for _, f := range accepted {
		ids = append(ids, f.Other(userID))
	}
	profiles, err := s.sharedProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	friends := make([]common.SharedProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			friends = append(friends, p)
		}
	}
	return friends, nil
}

// Requests lists the pending requests of userID in both directions
func (s *FriendService) Requests(ctx context.Context, userID uuid.UUID) (*PendingRequests, error) {
	received, err := s.repos.Friendships().ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.repos.Friendships().ListPendingSent(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(received)+len(sent))
	for _, f := range append(received, sent...) {
		ids = append(ids, f.Other(userID))
	}
	profiles, err := s.sharedProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := func(list []*friendship.Friendship) []RequestView {
		out := make([]RequestView, 0, len(list))
		for _, f := range list {
			out = append(out, RequestView{Friendship: f, User: profiles[f.Other(userID)]})
		}
		return out
	}
	return &PendingRequests{Received: views(received), Sent: views(sent)}, nil
}

// Status describes the relation between userID and otherID from userID's side
func (s *FriendService) Status(ctx context.Context, userID, otherID uuid.UUID) (friendship.RelationStatus, error) {
	f, err := s.repos.Friendships().GetBetween(ctx, userID, otherID)
	if err != nil {
		return friendship.RelationNone, err
	}
	return friendship.RelationFor(f, userID), nil
}

func (s *FriendService) sharedProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]common.SharedProfile, error) {
	profiles, err := s.repos.Profiles().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]common.SharedProfile, len(profiles))
	for _, p := range profiles {
		out[p.ID] = common.SharedProfile{ID: p.ID, Username: p.Username}
	}
	return out, nil
}
