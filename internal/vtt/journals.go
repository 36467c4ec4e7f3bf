package vtt

import (
	"context"
	"time"

	"vtt-bridge/internal/bridge"
)

// Command and reply tags for journal operations.
const (
	cmdCreateJournal    = "create-journal"
	cmdGetJournal       = "get-journal"
	cmdDeleteJournal    = "delete-journal"
	cmdListJournals     = "list-journals"
	replyJournalCreated = "journal-created"
	replyJournalData    = "journal-data"
	replyJournalDeleted = "journal-deleted"
	replyJournalsList   = "journals-list"
)

type JournalSummary struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// CreateJournalRequest carries one journal entry with rendered HTML content.
type CreateJournalRequest struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
	Folder  string `json:"folder,omitempty"`
}

type CreateJournalResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

type GetJournalResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

type DeleteJournalResult struct {
	Success bool   `json:"success"`
	UUID    string `json:"uuid,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ListJournalsResult struct {
	Success  bool             `json:"success"`
	Journals []JournalSummary `json:"journals,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Journals exposes journal-entry operations over the bridge.
type Journals struct {
	caller bridge.Caller

	Timeout time.Duration
}

func NewJournals(caller bridge.Caller) *Journals {
	return &Journals{caller: caller}
}

func (j *Journals) Create(ctx context.Context, req CreateJournalRequest) CreateJournalResult {
	reply, err := j.caller.Call(ctx, cmdCreateJournal, req, j.Timeout)
	if err != nil {
		return CreateJournalResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyJournalCreated {
		return CreateJournalResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return CreateJournalResult{Error: remoteError(reply)}
	}
	return CreateJournalResult{Success: true, UUID: data.UUID, Name: data.Name}
}

func (j *Journals) Get(ctx context.Context, uuid string) GetJournalResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := j.caller.Call(ctx, cmdGetJournal, payload, j.Timeout)
	if err != nil {
		return GetJournalResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyJournalData {
		return GetJournalResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID    string `json:"uuid"`
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return GetJournalResult{Error: remoteError(reply)}
	}
	return GetJournalResult{
		Success: true,
		UUID:    data.UUID,
		Name:    data.Name,
		Content: data.Content,
	}
}

func (j *Journals) Delete(ctx context.Context, uuid string) DeleteJournalResult {
	payload := map[string]string{"uuid": uuid}

	reply, err := j.caller.Call(ctx, cmdDeleteJournal, payload, j.Timeout)
	if err != nil {
		return DeleteJournalResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyJournalDeleted {
		return DeleteJournalResult{Error: remoteError(reply)}
	}

	var data struct {
		UUID string `json:"uuid"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return DeleteJournalResult{Error: remoteError(reply)}
	}
	return DeleteJournalResult{Success: true, UUID: data.UUID}
}

func (j *Journals) List(ctx context.Context) ListJournalsResult {
	reply, err := j.caller.Call(ctx, cmdListJournals, nil, j.Timeout)
	if err != nil {
		return ListJournalsResult{Error: NoConnectionMsg}
	}
	if reply.Type != replyJournalsList {
		return ListJournalsResult{Error: remoteError(reply)}
	}

	var data struct {
		Journals []JournalSummary `json:"journals"`
	}
	if err := reply.DecodeData(&data); err != nil {
		return ListJournalsResult{Error: remoteError(reply)}
	}
	return ListJournalsResult{Success: true, Journals: data.Journals}
}
