package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"joinbot/internal/transport"
	logx "joinbot/pkg/logx"
)

type HandlerFunc func(ctx context.Context, u transport.Update) error

type Middleware func(next HandlerFunc) HandlerFunc

func Chain(h HandlerFunc, m ...Middleware) HandlerFunc {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

// MWPanicRecover turns a handler panic into an error so the dispatch loop
// keeps running.
func MWPanicRecover(log logx.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, u transport.Update) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered",
						logx.String("kind", string(u.Kind)),
						logx.Any("panic", r),
						logx.String("stack", string(debug.Stack())),
					)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(ctx, u)
		}
	}
}

// slowUpdate is the handling time above which a successful update is logged
// at info.
const slowUpdate = 750 * time.Millisecond

func MWRequestLog(log logx.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, u transport.Update) error {
			start := time.Now()
			err := next(ctx, u)
			d := time.Since(start)
			if err == nil && d < slowUpdate && !log.Enabled(logx.LevelDebug) {
				return nil
			}

			fields := []logx.Field{
				logx.String("kind", string(u.Kind)),
				logx.Int64("from_id", u.FromID()),
				logx.Duration("dur", d),
			}
			if u.Command != nil {
				fields = append(fields, logx.String("cmd", u.Command.Name))
			}
			if u.Button != nil {
				fields = append(fields, logx.String("data", u.Button.Data))
			}
			switch {
			case err != nil:
				log.Warn("update failed", append(fields, logx.Err(err))...)
			case d >= slowUpdate:
				// Broadcasts to large registries land here.
				log.Info("update ok", fields...)
			default:
				log.Debug("update ok", fields...)
			}
			return err
		}
	}
}
