package socket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"committeehub/internal/domain"
)

// Event names of the committee channel. Replies reuse the request's event name.
const (
	EventGetCommittees   = "get_committees"
	EventGetCommittee    = "get_committee"
	EventCreateCommittee = "create_committee"
	EventEditCommittee   = "edit_committee"
	EventLogin           = "login"
)

// User-visible messages.
const (
	MsgCommitteeNotFound   = "Committee doesn't exist."
	MsgCommitteeExists     = "Committee already exists."
	MsgNotAdmin            = "User doesn't exist or is not admin."
	MsgCommitteeNotEdited  = "Committee couldn't be edited, check data."
	MsgCommitteeNotCreated = "Committee couldn't be created, check data."
	MsgCommitteesFailed    = "Committees couldn't be retrieved."
	MsgInvalidCredentials  = "Invalid credentials."
	MsgLoginFailed         = "Login failed."

	MsgCommitteeCreated = "Committee successfully created."
	MsgCommitteeEdited  = "Committee successfully edited."
)

type getCommitteesRequest struct {
	Broadcast bool `json:"broadcast"`
}

type getCommitteeRequest struct {
	CommitteeID string `json:"committee_id"`
}

type createCommitteeRequest struct {
	Token       string `json:"token"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	MeetingTime string `json:"meeting_time"`
	Head        string `json:"head"`
}

// editCommitteeRequest only declares the editable fields; title and anything else sent is ignored.
type editCommitteeRequest struct {
	Token       string  `json:"token"`
	ID          string  `json:"id"`
	Description *string `json:"description"`
	Head        *string `json:"head"`
	Location    *string `json:"location"`
	MeetingTime *string `json:"meeting_time"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success payload of the login event.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// CommitteeHandlers serves the committee events.
type CommitteeHandlers struct {
	Logger     *slog.Logger
	Committees domain.CommitteeService
	Auth       domain.AuthService
}

// NewCommitteeHandlers creates CommitteeHandlers with the given logger and services.
func NewCommitteeHandlers(logger *slog.Logger, committees domain.CommitteeService, auth domain.AuthService) *CommitteeHandlers {
	return &CommitteeHandlers{Logger: logger, Committees: committees, Auth: auth}
}

// Register adds every committee event to r.
func (h *CommitteeHandlers) Register(r *Router) {
	r.Handle(EventGetCommittees, h.GetCommittees)
	r.Handle(EventGetCommittee, h.GetCommittee)
	r.Handle(EventCreateCommittee, h.CreateCommittee)
	r.Handle(EventEditCommittee, h.EditCommittee)
	r.Handle(EventLogin, h.Login)
}

// GetCommittees accepts null, a bare boolean, or {"broadcast": bool}.
func (h *CommitteeHandlers) GetCommittees(ctx context.Context, emit Emitter, data json.RawMessage) {
	var req getCommitteesRequest
	if !isEmpty(data) {
		if err := json.Unmarshal(data, &req); err != nil {
			_ = json.Unmarshal(data, &req.Broadcast)
		}
	}
	scope := ToSender
	if req.Broadcast {
		scope = ToAll
	}
	h.listCommittees(ctx, emit, scope)
}

// GetCommittee accepts the id as a bare string or as {"committee_id": "..."}.
func (h *CommitteeHandlers) GetCommittee(ctx context.Context, emit Emitter, data json.RawMessage) {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		var req getCommitteeRequest
		if err := json.Unmarshal(data, &req); err == nil {
			id = req.CommitteeID
		}
	}
	committee, err := h.Committees.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrCommitteeNotFound) {
			h.Logger.ErrorContext(ctx, "get committee failed", "committee_id", id, "err", err)
		}
		h.fail(ctx, emit, EventGetCommittee, MsgCommitteeNotFound)
		return
	}
	h.emit(ctx, emit, ToSender, EventGetCommittee, committee)
}

func (h *CommitteeHandlers) CreateCommittee(ctx context.Context, emit Emitter, data json.RawMessage) {
	var req createCommitteeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.fail(ctx, emit, EventCreateCommittee, MsgCommitteeNotCreated)
		return
	}
	committee, err := h.Committees.Create(ctx, req.Token, domain.CreateCommitteeInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		MeetingTime: req.MeetingTime,
		Head:        req.Head,
	})
	if err != nil {
		switch {
		case domain.IsAuthorizationError(err):
			h.fail(ctx, emit, EventCreateCommittee, MsgNotAdmin)
		case errors.Is(err, domain.ErrCommitteeExists):
			h.fail(ctx, emit, EventCreateCommittee, MsgCommitteeExists)
		case errors.Is(err, domain.ErrInvalidCommittee):
			h.fail(ctx, emit, EventCreateCommittee, MsgCommitteeNotCreated)
		default:
			h.Logger.ErrorContext(ctx, "create committee failed", "title", req.Title, "err", err)
			h.fail(ctx, emit, EventCreateCommittee, MsgCommitteeNotCreated)
		}
		return
	}
	h.Logger.InfoContext(ctx, "committee created", "committee_id", committee.ID)
	h.emit(ctx, emit, ToSender, EventCreateCommittee, SuccessPayload{Success: MsgCommitteeCreated})
	h.listCommittees(ctx, emit, ToAll)
}

func (h *CommitteeHandlers) EditCommittee(ctx context.Context, emit Emitter, data json.RawMessage) {
	var req editCommitteeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.fail(ctx, emit, EventEditCommittee, MsgCommitteeNotEdited)
		return
	}
	committee, err := h.Committees.Edit(ctx, req.Token, req.ID, domain.CommitteeChanges{
		Description: req.Description,
		Head:        req.Head,
		Location:    req.Location,
		MeetingTime: req.MeetingTime,
	})
	if err != nil {
		switch {
		case domain.IsAuthorizationError(err):
			h.fail(ctx, emit, EventEditCommittee, MsgNotAdmin)
		case errors.Is(err, domain.ErrCommitteeNotFound):
			h.fail(ctx, emit, EventEditCommittee, MsgCommitteeNotFound)
		default:
			if !errors.Is(err, domain.ErrInvalidCommittee) {
				h.Logger.ErrorContext(ctx, "edit committee failed", "committee_id", req.ID, "err", err)
			}
			h.fail(ctx, emit, EventEditCommittee, MsgCommitteeNotEdited)
		}
		return
	}
	h.Logger.InfoContext(ctx, "committee edited", "committee_id", committee.ID)
	h.emit(ctx, emit, ToSender, EventEditCommittee, SuccessPayload{Success: MsgCommitteeEdited})
	h.listCommittees(ctx, emit, ToAll)
}

func (h *CommitteeHandlers) Login(ctx context.Context, emit Emitter, data json.RawMessage) {
	var req loginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.fail(ctx, emit, EventLogin, MsgInvalidCredentials)
		return
	}
	token, user, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.fail(ctx, emit, EventLogin, MsgInvalidCredentials)
			return
		}
		h.Logger.ErrorContext(ctx, "login failed", "err", err)
		h.fail(ctx, emit, EventLogin, MsgLoginFailed)
		return
	}
	h.emit(ctx, emit, ToSender, EventLogin, LoginResponse{Token: token, User: user})
}

func (h *CommitteeHandlers) listCommittees(ctx context.Context, emit Emitter, scope Scope) {
	committees, err := h.Committees.List(ctx)
	if err != nil {
		h.Logger.ErrorContext(ctx, "list committees failed", "scope", scope.String(), "err", err)
		h.fail(ctx, emit, EventGetCommittees, MsgCommitteesFailed)
		return
	}
	h.emit(ctx, emit, scope, EventGetCommittees, domain.NewCommitteeList(committees))
}

func (h *CommitteeHandlers) fail(ctx context.Context, emit Emitter, event, message string) {
	h.emit(ctx, emit, ToSender, event, ErrorPayload{Error: message})
}

func (h *CommitteeHandlers) emit(ctx context.Context, emit Emitter, scope Scope, event string, payload any) {
	if err := emit.Emit(ctx, scope, event, payload); err != nil {
		h.Logger.ErrorContext(ctx, "emit failed", "event", event, "scope", scope.String(), "err", err)
	}
}

func isEmpty(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
