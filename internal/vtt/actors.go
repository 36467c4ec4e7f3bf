package vtt

import (
	"context"
	"encoding/json"
	"time"

	"vtt-bridge/internal/bridge"
)

// Command and reply tags for actor operations.
const (
	cmdCreateActor    = "create-actor"
	cmdGetActor       = "get-actor"
	cmdDeleteActor    = "delete-actor"
	cmdListActors     = "list-actors"
	replyActorCreated = "actor-created"
	replyActorData    = "actor-data"
	replyActorDeleted = "actor-deleted"
	replyActorsList   = "actors-list"
)

// ActorSummary is one entry of an actor listing.
type ActorSummary struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// CreateActorRequest carries a schema-converted actor document ready for the
// client to import.
type CreateActorRequest struct {
	Name   string          `json:"name"`
	Type   string          `json:"type,omitempty"`
	Img    string          `json:"img,omitempty"`
	Folder string          `json:"folder,omitempty"`
	System json.RawMessage `json:"system,omitempty"`
	Items  json.RawMessage `json:"items,omitempty"`
}

type CreateActorResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

type GetActorResult struct {
	Success bool            `json:"success"`
	UUID    string          `json:"uuid,omitempty"`
	Name    string          `json:"name,omitempty"`
	Type    string          `json:"type,omitempty"`
	Img     string          `json:"img,omitempty"`
	System  json.RawMessage `json:"system,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type DeleteActorResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ListActorsResult struct {
	Success bool           `json:"success"`
	Actors  []ActorSummary `json:"actors,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Actors exposes actor operations over the bridge.
type Actors struct {
	caller bridge.Caller

	// Timeout applies per call; zero means the dispatcher default.
	Timeout time.Duration
}

func NewActors(caller bridge.Caller) *Actors {
	return &Actors{caller: caller}
}

// Create imports an actor document into the connected client.
func (a *Actors) Create(ctx context.Context, req CreateActorRequest) CreateActorResult {
	reply, err := a.caller.Call(ctx, cmdCreateActor, req, a.Timeout)
	if err != nil {
		return CreateActorResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyActorCreated {
		return CreateActorResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return CreateActorResult{Error: remoteError(reply)}
	}
	return CreateActorResult{Success: true, UUID: data.UUID, Name: data.Name}
}

// Get fetches an actor by uuid.
func (a *Actors) Get(ctx context.Context, uuid string) GetActorResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := a.caller.Call(ctx, cmdGetActor, payload, a.Timeout)
	if err != nil {
		return GetActorResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyActorData {
		return GetActorResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID   string          `json:"uuid"`
		Name   string          `json:"name"`
		Type   string          `json:"type"`
		Img    string          `json:"img"`
		System json.RawMessage `json:"system"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return GetActorResult{Error: remoteError(reply)}
	}
	return GetActorResult{
		Success: true,
		UUID:    data.UUID,
		Name:    data.Name,
		Type:    data.Type,
		Img:     data.Img,
		System:  data.System,
	}
}

// Delete removes an actor by uuid.
func (a *Actors) Delete(ctx context.Context, uuid string) DeleteActorResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := a.caller.Call(ctx, cmdDeleteActor, payload, a.Timeout)
	if err != nil {
		return DeleteActorResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyActorDeleted {
		return DeleteActorResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return DeleteActorResult{Error: remoteError(reply)}
	}
	return DeleteActorResult{Success: true, UUID: data.UUID}
}

// List enumerates the actors present in the client's world.
func (a *Actors) List(ctx context.Context) ListActorsResult {
	reply, err := a.caller.Call(ctx, cmdListActors, nil, a.Timeout)
	if err != nil {
		return ListActorsResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyActorsList {
		return ListActorsResult{Error: remoteError(reply)}
	}

	var data struct {
		Actors []ActorSummary `json:"actors"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return ListActorsResult{Error: remoteError(reply)}
	}
	return ListActorsResult{Success: true, Actors: data.Actors}
}
