package bot

import (
	"context"
	"strconv"
	"time"

	"joinbot/internal/eventbus"
	"joinbot/internal/storage"
	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

// JoinOutcome reports each step of a join request independently.
type JoinOutcome struct {
	Approved   bool
	Registered bool // false for an already known user
	Welcomed   bool

	ApproveErr error
	SaveErr    error
	WelcomeErr error
}

// JoinHandler approves a request, registers the requester and sends the
// rendered welcome message, in that order. No step's failure skips a later
// step.
type JoinHandler struct {
	sender transport.Sender
	reg    *Registry
	bus    eventbus.Bus
	log    logx.Logger
}

func NewJoinHandler(sender transport.Sender, reg *Registry, bus eventbus.Bus, log logx.Logger) *JoinHandler {
	return &JoinHandler{sender: sender, reg: reg, bus: bus, log: log}
}

func (h *JoinHandler) Handle(ctx context.Context, req transport.JoinRequest) JoinOutcome {
	var out JoinOutcome
	log := h.log.With(logx.Int64("chat_id", req.ChatID), logx.Int64("user_id", req.UserID))

	if err := h.sender.ApproveJoinRequest(ctx, req.ChatID, req.UserID); err != nil {
		out.ApproveErr = err
		log.Warn("approve join request failed", logx.Err(err))
	} else {
		out.Approved = true
	}

	added, err := h.reg.Register(ctx, req.UserID)
	out.Registered = added
	if err != nil {
		out.SaveErr = err
		log.Error("register user failed", logx.Err(err))
	}

	text := Render(h.reg.Template(), req.DisplayName())
	if _, err := h.sender.SendText(ctx, transport.ChatTarget{ChatID: req.UserID}, text, nil); err != nil {
		out.WelcomeErr = err
		log.Debug("welcome message not delivered", logx.Err(err))
	} else {
		out.Welcomed = true
	}

	log.Info("join request handled",
		logx.Bool("approved", out.Approved),
		logx.Bool("new_user", out.Registered),
		logx.Bool("welcomed", out.Welcomed),
	)
	h.audit(ctx, req, out)
	if h.bus != nil && out.Approved {
		h.bus.Publish(eventbus.Event{Type: eventbus.JoinApproved, Data: req})
	}
	return out
}

func (h *JoinHandler) audit(ctx context.Context, req transport.JoinRequest, out JoinOutcome) {
	e := storage.AuditEntry{
		At:      time.Now(),
		ActorID: req.UserID,
		Action:  "join.approve",
		Target:  strconv.FormatInt(req.ChatID, 10),
	}
	if out.Approved {
		e.OK = 1
	} else {
		e.Fail = 1
		e.Error = out.ApproveErr.Error()
	}
	if err := h.reg.Audit(ctx, e); err != nil {
		h.log.Debug("audit append failed", logx.Err(err))
	}
}
