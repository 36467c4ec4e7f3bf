package vtt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtt-bridge/internal/bridge"
)

func TestScenes_Create(t *testing.T) {
	caller := &fakeCaller{
		reply: envelope(t, "scene-created", map[string]string{
			"uuid": "Scene.s1",
			"name": "Goblin Ambush",
		}),
	}
	scenes := NewScenes(caller)

	res := scenes.Create(context.Background(), CreateSceneRequest{
		Name:       "Goblin Ambush",
		Background: "worlds/maps/ambush.webp",
		Width:      2800,
		Height:     2100,
		GridSize:   100,
	})

	require.True(t, res.Success)
	assert.Equal(t, "Scene.s1", res.UUID)
	assert.Equal(t, "create-scene", caller.lastCommand)
}

func TestScenes_GetUnexpectedReplyTag(t *testing.T) {
	// A success-looking reply for the wrong kind still counts as a remote
	// failure for this adapter.
	caller := &fakeCaller{
		reply: envelope(t, "actor-data", map[string]string{"uuid": "Actor.1"}),
	}
	scenes := NewScenes(caller)

	res := scenes.Get(context.Background(), "Scene.s1")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, `unexpected reply "actor-data"`)
}

func TestScenes_ListAndDelete(t *testing.T) {
	caller := &fakeCaller{
		reply: envelope(t, "scenes-list", map[string]any{
			"scenes": []map[string]string{{"uuid": "Scene.s1", "name": "Goblin Ambush"}},
		}),
	}
	scenes := NewScenes(caller)

	listed := scenes.List(context.Background())
	require.True(t, listed.Success)
	require.Len(t, listed.Scenes, 1)
	assert.Equal(t, "list-scenes", caller.lastCommand)

	caller.reply = envelope(t, "scene-deleted", map[string]string{"uuid": "Scene.s1"})
	deleted := scenes.Delete(context.Background(), "Scene.s1")
	require.True(t, deleted.Success)
	assert.Equal(t, "Scene.s1", deleted.UUID)
}

func TestScenes_CreateTimeout(t *testing.T) {
	caller := &fakeCaller{err: bridge.ErrCallTimeout}
	scenes := NewScenes(caller)

	res := scenes.Create(context.Background(), CreateSceneRequest{Name: "Goblin Ambush"})

	assert.False(t, res.Success)
	assert.Equal(t, "No connection or timeout", res.Error)
}
