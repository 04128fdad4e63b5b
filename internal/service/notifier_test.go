package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/realtime"
)

type fakeStore struct {
	created []model.Notification
	err     error
}

func (f *fakeStore) Create(_ context.Context, userID uint64, message, link string) (model.Notification, error) {
	if f.err != nil {
		return model.Notification{}, f.err
	}
	n := model.Notification{ID: uint64(len(f.created) + 1), UserID: userID, Message: message, Link: link}
	f.created = append(f.created, n)
	return n, nil
}

type fakeRegistry struct {
	sent []realtime.Event
	to   []uint64
}

func (f *fakeRegistry) Register(uint64, chan realtime.Event)    {}
func (f *fakeRegistry) Unregister(uint64, chan realtime.Event)  {}
func (f *fakeRegistry) Send(userID uint64, ev realtime.Event) bool {
	f.to = append(f.to, userID)
	f.sent = append(f.sent, ev)
	return true
}

func TestNotifyPersistsThenPushes(t *testing.T) {
	store := &fakeStore{}
	reg := &fakeRegistry{}
	n := NewNotifier(store, reg)

	err := n.Notify(context.Background(), 7, "hello", "/requests/1")
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Equal(t, uint64(7), store.created[0].UserID)

	require.Len(t, reg.sent, 1)
	assert.Equal(t, uint64(7), reg.to[0])
	assert.Equal(t, "newNotification", reg.sent[0].Name)
}

func TestNotifyStoreFailureSkipsPush(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	reg := &fakeRegistry{}
	n := NewNotifier(store, reg)

	err := n.Notify(context.Background(), 7, "hello", "")
	require.Error(t, err)
	assert.Empty(t, reg.sent)
}

func TestNotifyQuietSwallowsError(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	n := NewNotifier(store, &fakeRegistry{})

	// Must not panic or propagate.
	n.NotifyQuiet(context.Background(), 7, "hello", "")
}

func TestNotifyNilRegistry(t *testing.T) {
	store := &fakeStore{}
	n := NewNotifier(store, nil)

	require.NoError(t, n.Notify(context.Background(), 7, "hello", ""))
	assert.Len(t, store.created, 1)

	n.Push(7, "newSession", nil) // no-op without a registry
}

func TestPushBypassesStore(t *testing.T) {
	store := &fakeStore{}
	reg := &fakeRegistry{}
	n := NewNotifier(store, reg)

	n.Push(3, "sessionUpdated", map[string]any{"id": 1})

	assert.Empty(t, store.created)
	require.Len(t, reg.sent, 1)
	assert.Equal(t, "sessionUpdated", reg.sent[0].Name)
}
