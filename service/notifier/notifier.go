package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lendpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/yiplee/structs"
)

const flushTimeout = 5 * time.Second

type natsNotifier struct {
	conn   *nats.Conn
	prefix string
}

// New publishes every audit record to <prefix>.<pool>.<action>
func New(conn *nats.Conn, prefix string) core.INotifier {
	return &natsNotifier{
		conn:   conn,
		prefix: prefix,
	}
}

// Subject nats subject of an audit record
func Subject(prefix string, t *core.Transaction) string {
	pool := t.PoolID
	if pool == "" {
		pool = "global"
	}

	return fmt.Sprintf("%s.%s.%s", prefix, pool, t.Action)
}

func (n *natsNotifier) Notify(ctx context.Context, transactions []*core.Transaction) error {
	for _, t := range transactions {
		data, err := json.Marshal(t)
		if err != nil {
			return errors.Wrap(err, "marshal transaction")
		}

		if err := n.conn.Publish(Subject(n.prefix, t), data); err != nil {
			return errors.Wrapf(err, "publish %s", t.TraceID)
		}
	}

	return n.conn.FlushTimeout(flushTimeout)
}

type logNotifier struct{}

// Log writes audit records to the log, used when no nats server is configured
func Log() core.INotifier {
	return &logNotifier{}
}

func (n *logNotifier) Notify(ctx context.Context, transactions []*core.Transaction) error {
	log := logger.FromContext(ctx)
	for _, t := range transactions {
		log.WithFields(structs.Map(t)).Infoln("transaction committed")
	}

	return nil
}
