package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// JobSender delivers a rendered job. *Mailgun satisfies it.
type JobSender interface {
	SendJob(ctx context.Context, job EmailJob) error
}

// Acker settles a queue delivery.
type Acker interface {
	Ack() error
	Nack(requeue bool) error
}

// Worker turns queued email jobs into sends.
type Worker struct {
	Sender  JobSender
	Logger  logrus.FieldLogger
	Timeout time.Duration
}

// Handle processes one delivery. Malformed payloads are dropped; failed sends
// are requeued.
func (w *Worker) Handle(ctx context.Context, body []byte, acker Acker) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil || job.To == "" {
		w.Logger.WithError(err).Warn("bad email job; dropping")
		_ = acker.Nack(false)
		return
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := w.Sender.SendJob(c, job); err != nil {
		w.Logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Error("send failed")
		_ = acker.Nack(true)
		return
	}
	_ = acker.Ack()
}
