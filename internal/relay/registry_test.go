package relay_test

import (
	"fmt"
	"sync"
	"testing"

	"sparmatch/backend/internal/relay"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegisterIdentifyUnregister(t *testing.T) {
	presence := relay.NewPresence()
	reg := relay.NewRegistry(presence)

	client := newMockClient("alice")
	id := reg.Register(client)

	// unidentified connections carry no presence
	assert.False(t, reg.IsOnline("alice"))

	reg.Identify(id, "alice")
	assert.True(t, reg.IsOnline("alice"))
	assert.Len(t, reg.ForUser("alice"), 1)

	reg.Unregister(id)
	assert.False(t, reg.IsOnline("alice"))
	assert.Empty(t, reg.ForUser("alice"))
}

func TestRegistry_MultiConnectionPresence(t *testing.T) {
	reg := relay.NewRegistry(relay.NewPresence())

	first := reg.Register(newMockClient("alice"))
	reg.Identify(first, "alice")
	second := reg.Register(newMockClient("alice"))
	reg.Identify(second, "alice")

	// closing one device must not flip the user offline
	reg.Unregister(first)
	assert.True(t, reg.IsOnline("alice"))
	assert.Len(t, reg.ForUser("alice"), 1)

	reg.Unregister(second)
	assert.False(t, reg.IsOnline("alice"))
}

func TestRegistry_JoinRoomOverwritesPrior(t *testing.T) {
	reg := relay.NewRegistry(relay.NewPresence())

	client := newMockClient("alice")
	id := reg.Register(client)

	reg.JoinRoom(id, "room1")
	assert.Len(t, reg.InRoom("room1"), 1)

	reg.JoinRoom(id, "room2")
	assert.Empty(t, reg.InRoom("room1"))
	assert.Len(t, reg.InRoom("room2"), 1)
}

func TestRegistry_RoomScoping(t *testing.T) {
	reg := relay.NewRegistry(relay.NewPresence())

	x := newMockClient("alice")
	y := newMockClient("bob")
	xID := reg.Register(x)
	reg.Register(y)

	reg.JoinRoom(xID, "room1")

	members := reg.InRoom("room1")
	assert.Len(t, members, 1)
	assert.Same(t, x, members[0].(*mockClient))
}

func TestRegistry_Others(t *testing.T) {
	reg := relay.NewRegistry(relay.NewPresence())

	x := newMockClient("alice")
	y := newMockClient("bob")
	xID := reg.Register(x)
	reg.Register(y)

	others := reg.Others(xID)
	assert.Len(t, others, 1)
	assert.Same(t, y, others[0].(*mockClient))
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	reg := relay.NewRegistry(relay.NewPresence())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("user_%d", n%5)
			id := reg.Register(newMockClient(user))
			reg.Identify(id, user)
			reg.JoinRoom(id, "room1")
			reg.InRoom("room1")
			reg.Unregister(id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		user := fmt.Sprintf("user_%d", i)
		assert.False(t, reg.IsOnline(user))
		assert.Empty(t, reg.ForUser(user))
	}
	assert.Empty(t, reg.InRoom("room1"))
}
