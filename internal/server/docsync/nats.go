package docsync

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/dmitrijs2005/snapline/internal/docsync"
)

// Runner binds a Service to the protocol subjects on a NATS connection.
type Runner struct {
	nc      *nats.Conn
	service *Service
}

func NewRunner(nc *nats.Conn, service *Service) *Runner {
	return &Runner{nc: nc, service: service}
}

// Run subscribes to all protocol subjects and blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) error {

	subs := make([]*nats.Subscription, 0, 5)

	reply := func(subject string, handle func(context.Context, []byte) []byte) error {
		sub, err := r.nc.Subscribe(subject, func(msg *nats.Msg) {
			_ = msg.Respond(handle(ctx, msg.Data))
		})
		if err != nil {
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	if err := reply(docsync.SubjectSubscribe, r.service.HandleSubscribe); err != nil {
		return err
	}
	if err := reply(docsync.SubjectCreateMessage, r.service.HandleCreateMessage); err != nil {
		return err
	}
	if err := reply(docsync.SubjectUpdateChat, r.service.HandleUpdateChat); err != nil {
		return err
	}
	if err := reply(docsync.SubjectUpdateMessage, r.service.HandleUpdateMessage); err != nil {
		return err
	}

	unsub, err := r.nc.Subscribe(docsync.SubjectUnsubscribe, func(msg *nats.Msg) {
		r.service.HandleUnsubscribe(ctx, msg.Data)
	})
	if err != nil {
		return err
	}
	subs = append(subs, unsub)

	<-ctx.Done()

	for _, s := range subs {
		_ = s.Unsubscribe()
	}
	return nil
}
