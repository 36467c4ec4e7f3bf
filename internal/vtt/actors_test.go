package vtt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtt-bridge/internal/bridge"
)

func TestActors_CreateSuccess(t *testing.T) {
	caller := &fakeCaller{
		reply: envelope(t, "actor-created", map[string]string{
			"uuid": "Actor.abc123",
			"name": "Goblin",
		}),
	}
	actors := NewActors(caller)

	res := actors.Create(context.Background(), CreateActorRequest{Name: "Goblin", Type: "npc"})

	require.True(t, res.Success)
	assert.Equal(t, "Actor.abc123", res.UUID)
	assert.Equal(t, "Goblin", res.Name)
	assert.Empty(t, res.Error)
	assert.Equal(t, "create-actor", caller.lastCommand)
}

func TestActors_CreateRemoteError(t *testing.T) {
	caller := &fakeCaller{
		reply: envelope(t, "error", map[string]string{"error": "creature name too long"}),
	}
	actors := NewActors(caller)

	res := actors.Create(context.Background(), CreateActorRequest{Name: "Goblin"})

	assert.False(t, res.Success)
	assert.Equal(t, "creature name too long", res.Error)
	assert.Empty(t, res.UUID)
}

func TestActors_CreateNoConnection(t *testing.T) {
	caller := &fakeCaller{err: bridge.ErrNoConnection}
	actors := NewActors(caller)

	res := actors.Create(context.Background(), CreateActorRequest{Name: "Goblin"})

	assert.False(t, res.Success)
	assert.Equal(t, "No connection or timeout", res.Error)
}

func TestActors_CreateTimeout(t *testing.T) {
	caller := &fakeCaller{err: bridge.ErrCallTimeout}
	actors := NewActors(caller)

	res := actors.Create(context.Background(), CreateActorRequest{Name: "Goblin"})

	assert.False(t, res.Success)
	assert.Equal(t, "No connection or timeout", res.Error)
}

func TestActors_GetMissingOptionalFields(t *testing.T) {
	// A reply carrying only the uuid is still a success; optional fields
	// default to absent.
	caller := &fakeCaller{
		reply: envelope(t, "actor-data", map[string]string{"uuid": "Actor.abc123"}),
	}
	actors := NewActors(caller)

	res := actors.Get(context.Background(), "Actor.abc123")

	require.True(t, res.Success)
	assert.Equal(t, "Actor.abc123", res.UUID)
	assert.Empty(t, res.Name)
	assert.Empty(t, res.Img)
	assert.Nil(t, res.System)
	assert.Equal(t, "get-actor", caller.lastCommand)
}

func TestActors_Delete(t *testing.T) {
	caller := &fakeCaller{
		reply: envelope(t, "actor-deleted", map[string]string{"uuid": "Actor.abc123"}),
	}
	actors := NewActors(caller)

	res := actors.Delete(context.Background(), "Actor.abc123")

	require.True(t, res.Success)
	assert.Equal(t, "Actor.abc123", res.UUID)
	assert.Equal(t, "delete-actor", caller.lastCommand)
}

func TestActors_List(t *testing.T) {
	caller := &fakeCaller{
		reply: envelope(t, "actors-list", map[string]any{
			"actors": []map[string]string{
				{"uuid": "Actor.1", "name": "Goblin", "type": "npc"},
				{"uuid": "Actor.2", "name": "Bugbear", "type": "npc"},
			},
		}),
	}
	actors := NewActors(caller)

	res := actors.List(context.Background())

	require.True(t, res.Success)
	require.Len(t, res.Actors, 2)
	assert.Equal(t, "Goblin", res.Actors[0].Name)
	assert.Equal(t, "list-actors", caller.lastCommand)
}

func TestActors_ListNoConnection(t *testing.T) {
	caller := &fakeCaller{err: bridge.ErrNoConnection}
	actors := NewActors(caller)

	res := actors.List(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "No connection or timeout", res.Error)
	assert.Empty(t, res.Actors)
}
