package vtt

import (
	"context"
	"encoding/json"
	"time"

	"vtt-bridge/internal/bridge"
)

// Command and reply tags for item operations.
const (
	cmdCreateItem    = "create-item"
	cmdGetItem       = "get-item"
	cmdDeleteItem    = "delete-item"
	cmdListItems     = "list-items"
	replyItemCreated = "item-created"
	replyItemData    = "item-data"
	replyItemDeleted = "item-deleted"
	replyItemsList   = "items-list"
)

type ItemSummary struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type CreateItemRequest struct {
	Name   string          `json:"name"`
	Type   string          `json:"type,omitempty"`
	Img    string          `json:"img,omitempty"`
	Folder string          `json:"folder,omitempty"`
	System json.RawMessage `json:"system,omitempty"`
}

type CreateItemResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

type GetItemResult struct {
	Success bool            `json:"success"`
	UUID    string          `json:"uuid,omitempty"`
	Name    string          `json:"name,omitempty"`
	Type    string          `json:"type,omitempty"`
	Img     string          `json:"img,omitempty"`
	System  json.RawMessage `json:"system,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type DeleteItemResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ListItemsResult struct {
	Success bool          `json:"success"`
	Items   []ItemSummary `json:"items,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Items exposes item operations over the bridge.
type Items struct {
	caller bridge.Caller

	Timeout time.Duration
}

func NewItems(caller bridge.Caller) *Items {
	return &Items{caller: caller}
}

func (i *Items) Create(ctx context.Context, req CreateItemRequest) CreateItemResult {
	reply, err := i.caller.Call(ctx, cmdCreateItem, req, i.Timeout)
	if err != nil {
		return CreateItemResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyItemCreated {
		return CreateItemResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return CreateItemResult{Error: remoteError(reply)}
	}
	return CreateItemResult{Success: true, UUID: data.UUID, Name: data.Name}
}

func (i *Items) Get(ctx context.Context, uuid string) GetItemResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := i.caller.Call(ctx, cmdGetItem, payload, i.Timeout)
	if err != nil {
		return GetItemResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyItemData {
		return GetItemResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID   string          `json:"uuid"`
		Name   string          `json:"name"`
		Type   string          `json:"type"`
		Img    string          `json:"img"`
		System json.RawMessage `json:"system"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return GetItemResult{Error: remoteError(reply)}
	}
	return GetItemResult{
		Success: true,
		UUID:    data.UUID,
		Name:    data.Name,
		Type:    data.Type,
		Img:     data.Img,
		System:  data.System,
	}
}

func (i *Items) Delete(ctx context.Context, uuid string) DeleteItemResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := i.caller.Call(ctx, cmdDeleteItem, payload, i.Timeout)
	if err != nil {
		return DeleteItemResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyItemDeleted {
		return DeleteItemResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return DeleteItemResult{Error: remoteError(reply)}
	}
	return DeleteItemResult{Success: true, UUID: data.UUID}
}

func (i *Items) List(ctx context.Context) ListItemsResult {
	reply, err := i.caller.Call(ctx, cmdListItems, nil, i.Timeout)
	if err != nil {
		return ListItemsResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyItemsList {
		return ListItemsResult{Error: remoteError(reply)}
	}

	var data struct {
		Items []ItemSummary `json:"items"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return ListItemsResult{Error: remoteError(reply)}
	}
	return ListItemsResult{Success: true, Items: data.Items}
}
