package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"joinbot/internal/eventbus"
	"joinbot/internal/storage"
	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

type Deps struct {
	Sender   transport.Sender
	Admins   AdminSet
	Registry *Registry
	Sessions *Sessions
	Bus      eventbus.Bus
	Log      logx.Logger
}

// Router dispatches inbound updates. Run handles them strictly one at a
// time in arrival order.
type Router struct {
	sender   transport.Sender
	admins   AdminSet
	reg      *Registry
	sessions *Sessions
	bus      eventbus.Bus
	log      logx.Logger

	join      *JoinHandler
	broadcast *Broadcaster
	handler   HandlerFunc
}

func NewRouter(d Deps) *Router {
	log := d.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	if d.Sessions == nil {
		d.Sessions = NewSessions()
	}
	r := &Router{
		sender:    d.Sender,
		admins:    d.Admins,
		reg:       d.Registry,
		sessions:  d.Sessions,
		bus:       d.Bus,
		log:       log,
		join:      NewJoinHandler(d.Sender, d.Registry, d.Bus, log.With(logx.String("comp", "join"))),
		broadcast: NewBroadcaster(d.Sender, d.Registry, d.Bus, log.With(logx.String("comp", "broadcast"))),
	}
	r.handler = Chain(r.dispatch, MWPanicRecover(log), MWRequestLog(log))
	return r
}

// Run consumes updates until ctx is done or in is closed.
func (r *Router) Run(ctx context.Context, in <-chan transport.Update) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-in:
			if !ok {
				return nil
			}
			_ = r.Handle(ctx, u)
		}
	}
}

// Handle processes a single update through the middleware chain.
func (r *Router) Handle(ctx context.Context, u transport.Update) error {
	return r.handler(ctx, u)
}

func (r *Router) dispatch(ctx context.Context, u transport.Update) error {
	switch u.Kind {
	case transport.UpdateCommand:
		if u.Command == nil {
			return nil
		}
		return r.onCommand(ctx, *u.Command)
	case transport.UpdateButton:
		if u.Button == nil {
			return nil
		}
		return r.onButton(ctx, *u.Button)
	case transport.UpdateText:
		if u.Text == nil {
			return nil
		}
		return r.onText(ctx, *u.Text)
	case transport.UpdateJoinRequest:
		if u.JoinRequest == nil {
			return nil
		}
		r.join.Handle(ctx, *u.JoinRequest)
		return nil
	default:
		return fmt.Errorf("unknown update kind %q", u.Kind)
	}
}

// onCommand answers only the menu commands; any other command is ignored
// for every caller, so group chatter aimed at other bots gets no reply.
func (r *Router) onCommand(ctx context.Context, c transport.Command) error {
	switch strings.ToLower(c.Name) {
	case "start", "admin":
	default:
		return nil
	}
	if !r.admins.IsAdmin(c.FromID) {
		_, err := r.sender.SendText(ctx, c.Chat, textAccessDenied, nil)
		return err
	}
	_, err := r.sender.SendText(ctx, c.Chat, textPanel, &transport.SendOptions{Keyboard: PanelKeyboard()})
	return err
}

func (r *Router) onButton(ctx context.Context, b transport.Button) error {
	if err := r.sender.AnswerCallback(ctx, b.ID, ""); err != nil {
		r.log.Debug("answer callback failed", logx.String("callback_id", b.ID), logx.Err(err))
	}

	if !r.admins.IsAdmin(b.FromID) {
		return r.reply(ctx, b, textNotAdmin)
	}

	switch b.Data {
	case CallbackEditWelcome:
		r.sessions.SetMode(b.FromID, ModeEditingTemplate)
		return r.reply(ctx, b, textEditPrompt)
	case CallbackResetWelcome:
		err := r.reg.ResetTemplate(ctx)
		r.audit(ctx, b.FromID, "template.reset", err)
		if err != nil {
			r.log.Error("reset welcome message failed", logx.Err(err))
			return r.reply(ctx, b, textTemplateFailed+err.Error())
		}
		r.publish(eventbus.TemplateUpdated, storage.DefaultTemplate)
		return r.reply(ctx, b, textResetDone)
	case CallbackSendBroadcast:
		r.sessions.SetMode(b.FromID, ModeBroadcasting)
		return r.reply(ctx, b, textBroadcastAsk)
	case CallbackAddChannel:
		return r.reply(ctx, b, textAddChannel)
	case CallbackAddGroup:
		return r.reply(ctx, b, textAddGroup)
	default:
		return nil
	}
}

func (r *Router) onText(ctx context.Context, t transport.Text) error {
	if !r.admins.IsAdmin(t.FromID) {
		return nil
	}

	switch r.sessions.Consume(t.FromID) {
	case ModeEditingTemplate:
		err := r.reg.SetTemplate(ctx, t.Text)
		r.audit(ctx, t.FromID, "template.set", err)
		if err != nil {
			r.log.Error("save welcome message failed", logx.Err(err))
			_, sendErr := r.sender.SendText(ctx, t.Chat, textTemplateFailed+err.Error(), nil)
			return sendErr
		}
		r.publish(eventbus.TemplateUpdated, t.Text)
		_, err = r.sender.SendText(ctx, t.Chat, textTemplateSaved, nil)
		return err

	case ModeBroadcasting:
		res := r.broadcast.Broadcast(ctx, t.Text)
		r.auditBroadcast(ctx, t.FromID, res)
		_, err := r.sender.SendText(ctx, t.Chat, fmt.Sprintf(textBroadcastSent, res.Delivered), nil)
		return err

	default:
		return nil
	}
}

// reply edits the message carrying the pressed button; if that fails the
// text is sent as a new message to the same chat.
func (r *Router) reply(ctx context.Context, b transport.Button, text string) error {
	err := r.sender.EditText(ctx, b.Ref(), text, nil)
	if err == nil {
		return nil
	}
	r.log.Debug("edit failed, sending new message", logx.Int("message_id", b.MessageID), logx.Err(err))
	if _, sendErr := r.sender.SendText(ctx, b.Chat, text, nil); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return nil
}

func (r *Router) audit(ctx context.Context, actor int64, action string, err error) {
	e := storage.AuditEntry{At: time.Now(), ActorID: actor, Action: action}
	if err != nil {
		e.Fail = 1
		e.Error = err.Error()
	} else {
		e.OK = 1
	}
	if aerr := r.reg.Audit(ctx, e); aerr != nil {
		r.log.Debug("audit append failed", logx.Err(aerr))
	}
}

func (r *Router) auditBroadcast(ctx context.Context, actor int64, res Result) {
	e := storage.AuditEntry{
		At:      time.Now(),
		ActorID: actor,
		Action:  "broadcast",
		OK:      res.Delivered,
		Fail:    res.Failed,
	}
	if err := r.reg.Audit(ctx, e); err != nil {
		r.log.Debug("audit append failed", logx.Err(err))
	}
}

func (r *Router) publish(typ string, data any) {
	if r.bus != nil {
		r.bus.Publish(eventbus.Event{Type: typ, Data: data})
	}
}
