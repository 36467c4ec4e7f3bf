package vtt

import (
	"context"
	"time"

	"vtt-bridge/internal/bridge"
)

// Command and reply tags for scene operations.
const (
	cmdCreateScene    = "create-scene"
	cmdGetScene       = "get-scene"
	cmdDeleteScene    = "delete-scene"
	cmdListScenes     = "list-scenes"
	replySceneCreated = "scene-created"
	replySceneData    = "scene-data"
	replySceneDeleted = "scene-deleted"
	replyScenesList   = "scenes-list"
)

type SceneSummary struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// CreateSceneRequest carries a scene document, typically with a generated
// battle-map image already stored client-side.
type CreateSceneRequest struct {
	Name       string `json:"name"`
	Background string `json:"background,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	GridSize   int    `json:"grid_size,omitempty"`
	Folder     string `json:"folder,omitempty"`
}

type CreateSceneResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

type GetSceneResult struct {
	Success    bool   `json:"success"`
	UUID       string `json:"uuid,omitempty"`
	Name       string `json:"name,omitempty"`
	Background string `json:"background,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

type DeleteSceneResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ListScenesResult struct {
	Success bool           `json:"success"`
	Scenes  []SceneSummary `json:"scenes,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Scenes exposes scene operations over the bridge.
type Scenes struct {
	caller bridge.Caller

	Timeout time.Duration
}

func NewScenes(caller bridge.Caller) *Scenes {
	return &Scenes{caller: caller}
}

func (s *Scenes) Create(ctx context.Context, req CreateSceneRequest) CreateSceneResult {
	reply, err := s.caller.Call(ctx, cmdCreateScene, req, s.Timeout)
	if err != nil {
		return CreateSceneResult{Error: NoConnectionMsg}
	}
	if reply.Type != replySceneCreated {
		return CreateSceneResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return CreateSceneResult{Error: remoteError(reply)}
	}
	return CreateSceneResult{Success: true, UUID: data.UUID, Name: data.Name}
}

func (s *Scenes) Get(ctx context.Context, uuid string) GetSceneResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := s.caller.Call(ctx, cmdGetScene, payload, s.Timeout)
	if err != nil {
		return GetSceneResult{Error: NoConnectionMsg}
	}
	if reply.Type != replySceneData {
		return GetSceneResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID       string `json:"uuid"`
		Name       string `json:"name"`
		Background string `json:"background"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return GetSceneResult{Error: remoteError(reply)}
	}
	return GetSceneResult{
		Success:    true,
		UUID:       data.UUID,
		Name:       data.Name,
		Background: data.Background,
		Width:      data.Width,
		Height:     data.Height,
	}
}

func (s *Scenes) Delete(ctx context.Context, uuid string) DeleteSceneResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := s.caller.Call(ctx, cmdDeleteScene, payload, s.Timeout)
	if err != nil {
		return DeleteSceneResult{Error: NoConnectionMsg}
	}
	if reply.Type != replySceneDeleted {
		return DeleteSceneResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return DeleteSceneResult{Error: remoteError(reply)}
	}
	return DeleteSceneResult{Success: true, UUID: data.UUID}
}

func (s *Scenes) List(ctx context.Context) ListScenesResult {
	reply, err := s.caller.Call(ctx, cmdListScenes, nil, s.Timeout)
	if err != nil {
		return ListScenesResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyScenesList {
		return ListScenesResult{Error: remoteError(reply)}
	}

	var data struct {
		Scenes []SceneSummary `json:"scenes"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return ListScenesResult{Error: remoteError(reply)}
	}
	return ListScenesResult{Success: true, Scenes: data.Scenes}
}
