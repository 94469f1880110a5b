package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/fring-api/internal/detection"
	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
	"github.com/gravadigital/fring-api/internal/storage/objectstore"
)

type memoryPhotos struct {
	objects map[string][]byte
}

func (m *memoryPhotos) Put(_ context.Context, data []byte, contentType string) (string, error) {
	key, err := objectstore.ObjectKey(data, contentType)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return key, nil
}

func (m *memoryPhotos) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://photos.test/" + key, nil
}

type stubDetector struct {
	result *detection.Result
}

func (d stubDetector) Detect(context.Context, []byte, string) (*detection.Result, error) {
	return d.result, nil
}

func TestCreateItemNormalizesInput(t *testing.T) {
	h := newHarness(t)
	owner := h.profile("owner")

	item, err := h.svc.Wardrobe.Create(h.ctx, owner.ID, ItemRequest{
		Name:        "  Veste en laine ",
		Category:    "TOP",
		WeatherTags: []string{" Froid", "", "pluie"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Veste en laine", item.Name)
	require.NotNil(t, item.Category)
	assert.Equal(t, wardrobe.CategoryTop, *item.Category)
	assert.Equal(t, []string{"froid", "pluie"}, []string(item.WeatherTags))

	entries, err := h.svc.Admin.Activity(h.ctx, postgresPage(1))
	require.NoError(t, err)
	require.Len(t, entries.Data, 1)
	assert.Equal(t, activity.ActionItemCreated, entries.Data[0].Action)
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	h := newHarness(t)
	owner := h.profile("owner")

	_, err := h.svc.Wardrobe.Create(h.ctx, owner.ID, ItemRequest{Name: "Chapeau", Category: "hat"})
	assert.True(t, common.IsKind(err, common.KindValidation))

	_, err = h.svc.Wardrobe.Create(h.ctx, owner.ID, ItemRequest{Name: "   "})
	assert.True(t, common.IsKind(err, common.KindValidation))
}

func TestFriendWardrobeVisibility(t *testing.T) {
	h := newHarness(t)
	owner := h.profile("owner")
	friend := h.profile("friend")
	stranger := h.profile("stranger")
	h.befriend(owner.ID, friend.ID)
	item := h.item(owner.ID, "Robe", wardrobe.CategoryTop)

	items, err := h.svc.Wardrobe.ListFor(h.ctx, friend.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = h.svc.Wardrobe.ListFor(h.ctx, stranger.ID, owner.ID)
	assert.True(t, common.IsKind(err, common.KindForbidden))

	_, err = h.svc.Wardrobe.Get(h.ctx, stranger.ID, item.ID)
	assert.True(t, common.IsKind(err, common.KindForbidden))

	_, err = h.svc.Wardrobe.ListFor(h.ctx, friend.ID, uuid.New())
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestUpdateAndDeleteRequireOwner(t *testing.T) {
	h := newHarness(t)
	owner := h.profile("owner")
	other := h.profile("other")
	item := h.item(owner.ID, "Short", wardrobe.CategoryBottom)

	_, err := h.svc.Wardrobe.Update(h.ctx, other.ID, item.ID, ItemRequest{Name: "Mine now"})
	assert.True(t, common.IsKind(err, common.KindForbidden))
	assert.True(t, common.IsKind(h.svc.Wardrobe.Delete(h.ctx, other.ID, item.ID), common.KindForbidden))

	updated, err := h.svc.Wardrobe.Update(h.ctx, owner.ID, item.ID, ItemRequest{Name: "Short en lin", Color: "beige"})
	require.NoError(t, err)
	assert.Equal(t, "beige", updated.Color)
	assert.Nil(t, updated.Category)

	require.NoError(t, h.svc.Wardrobe.Delete(h.ctx, owner.ID, item.ID))
	_, err = h.repos.Items().GetByID(h.ctx, item.ID)
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestDeleteItemUsedInEnsembleConflicts(t *testing.T) {
	h := newHarness(t)
	owner := h.profile("owner")
	e := h.ensemble(owner.ID)

	err := h.svc.Wardrobe.Delete(h.ctx, owner.ID, e.Items[0].ItemID)
	assert.True(t, common.IsKind(err, common.KindConflict))
}

func TestUploadPhoto(t *testing.T) {
	photos := &memoryPhotos{objects: map[string][]byte{}}
	h := newHarness(t, func(d *Deps) { d.Photos = photos })
	owner := h.profile("owner")
	item := h.item(owner.ID, "Pull", wardrobe.CategoryTop)

	updated, err := h.svc.Wardrobe.UploadPhoto(h.ctx, owner.ID, item.ID, []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Regexp(t, `^items/[0-9a-f]{64}\.jpg$`, updated.ImageKey)
	assert.Len(t, photos.objects, 1)

	url, err := h.svc.Wardrobe.PhotoURL(h.ctx, owner.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://photos.test/"+updated.ImageKey, url)

	_, err = h.svc.Wardrobe.UploadPhoto(h.ctx, owner.ID, item.ID, []byte("gif"), "image/gif")
	assert.True(t, common.IsKind(err, common.KindValidation))
}

func TestPhotoAndDetectionUnavailableWithoutBackends(t *testing.T) {
	h := newHarness(t)
	owner := h.profile("owner")
	item := h.item(owner.ID, "Pull", wardrobe.CategoryTop)

	_, err := h.svc.Wardrobe.UploadPhoto(h.ctx, owner.ID, item.ID, []byte("x"), "image/png")
	assert.True(t, common.IsKind(err, common.KindUnavailable))

	_, err = h.svc.Wardrobe.Detect(h.ctx, []byte("x"), "image/png")
	assert.True(t, common.IsKind(err, common.KindUnavailable))
}

func TestDetectDelegates(t *testing.T) {
	want := &detection.Result{Color: "bleu", Category: wardrobe.CategoryTop}
	h := newHarness(t, func(d *Deps) { d.Detector = stubDetector{result: want} })

	got, err := h.svc.Wardrobe.Detect(h.ctx, []byte("label"), "image/jpeg")
	require.NoError(t, err)
	assert.Same(t, want, got)
}
