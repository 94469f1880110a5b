package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/friendship"
	"github.com/gravadigital/fring-api/internal/realtime"
)

func TestFriendRequestLifecycle(t *testing.T) {
	h := newHarness(t)
	alice := h.profile("alice")
	bob := h.profile("bob")

	f, err := h.svc.Friends.SendRequest(h.ctx, alice.ID, FriendRequest{UserID: bob.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, h.notifier.sent(bob.ID, realtime.EventFriendRequest))

	status, err := h.svc.Friends.Status(h.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, friendship.RelationPendingSent, status)
	status, err = h.svc.Friends.Status(h.ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, friendship.RelationPendingReceived, status)

	requests, err := h.svc.Friends.Requests(h.ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, requests.Received, 1)
	assert.Empty(t, requests.Sent)
	assert.Equal(t, "alice", requests.Received[0].User.Username)

	_, err = h.svc.Friends.Respond(h.ctx, alice.ID, f.ID, true)
	assert.True(t, common.IsKind(err, common.KindForbidden))

	accepted, err := h.svc.Friends.Respond(h.ctx, bob.ID, f.ID, true)
	require.NoError(t, err)
	assert.Equal(t, friendship.StatusAccepted, accepted.Status)
	assert.Equal(t, 1, h.notifier.sent(alice.ID, realtime.EventFriendAccepted))

	_, err = h.svc.Friends.Respond(h.ctx, bob.ID, f.ID, false)
	assert.True(t, common.IsKind(err, common.KindConflict))

	friends, err := h.svc.Friends.Friends(h.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	require.NoError(t, h.svc.Friends.Remove(h.ctx, bob.ID, alice.ID))
	status, err = h.svc.Friends.Status(h.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, friendship.RelationNone, status)
	assert.True(t, common.IsKind(h.svc.Friends.Remove(h.ctx, bob.ID, alice.ID), common.KindNotFound))
}

func TestFriendRequestRejectsDuplicatesAndSelf(t *testing.T) {
	h := newHarness(t)
	alice := h.profile("alice")
	bob := h.profile("bob")

	_, err := h.svc.Friends.SendRequest(h.ctx, alice.ID, FriendRequest{UserID: alice.ID.String()})
	assert.True(t, common.IsKind(err, common.KindValidation))

	_, err = h.svc.Friends.SendRequest(h.ctx, alice.ID, FriendRequest{UserID: uuid.New().String()})
	assert.True(t, common.IsKind(err, common.KindNotFound))

	_, err = h.svc.Friends.SendRequest(h.ctx, alice.ID, FriendRequest{UserID: bob.ID.String()})
	require.NoError(t, err)

	_, err = h.svc.Friends.SendRequest(h.ctx, bob.ID, FriendRequest{UserID: alice.ID.String()})
	assert.True(t, common.IsKind(err, common.KindConflict))
}

func TestRejectedRequestCanBeRenewed(t *testing.T) {
	h := newHarness(t)
	alice := h.profile("alice")
	bob := h.profile("bob")

	f, err := h.svc.Friends.SendRequest(h.ctx, alice.ID, FriendRequest{UserID: bob.ID.String()})
	require.NoError(t, err)
	_, err = h.svc.Friends.Respond(h.ctx, bob.ID, f.ID, false)
	require.NoError(t, err)

	status, err := h.svc.Friends.Status(h.ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, friendship.RelationRejected, status)

	renewed, err := h.svc.Friends.SendRequest(h.ctx, bob.ID, FriendRequest{UserID: alice.ID.String()})
	require.NoError(t, err)
	assert.NotEqual(t, f.ID, renewed.ID)
	assert.Equal(t, bob.ID, renewed.RequesterID)

	_, err = h.repos.Friendships().GetByID(h.ctx, f.ID)
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestCancelRequest(t *testing.T) {
	h := newHarness(t)
	alice := h.profile("alice")
	bob := h.profile("bob")

	f, err := h.svc.Friends.SendRequest(h.ctx, alice.ID, FriendRequest{UserID: bob.ID.String()})
	require.NoError(t, err)

	assert.True(t, common.IsKind(h.svc.Friends.Cancel(h.ctx, bob.ID, f.ID), common.KindNotFound))
	require.NoError(t, h.svc.Friends.Cancel(h.ctx, alice.ID, f.ID))

	requests, err := h.svc.Friends.Requests(h.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, requests.Sent)
}
