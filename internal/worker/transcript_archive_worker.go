package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"gopherai-interview/internal/model"
)

// TranscriptSink receives archived transcripts.
type TranscriptSink interface {
	Append(ctx context.Context, t model.Transcript) error
}

// TranscriptArchiveWorker drains the transcript queue into a secondary store.
type TranscriptArchiveWorker struct {
	conn      *amqp.Connection
	sink      TranscriptSink
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTranscriptArchiveWorker(conn *amqp.Connection, sink TranscriptSink, queueName string) *TranscriptArchiveWorker {
	return &TranscriptArchiveWorker{
		conn:      conn,
		sink:      sink,
		queueName: queueName,
	}
}

func (w *TranscriptArchiveWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *TranscriptArchiveWorker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.process(ctx, d.Body); err != nil {
		log.Printf("archive transcript %s failed: %v", d.MessageId, err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (w *TranscriptArchiveWorker) process(ctx context.Context, body []byte) error {
	var t model.Transcript
	if err := json.Unmarshal(body, &t); err != nil {
		return fmt.Errorf("decode transcript: %w", err)
	}
	return w.sink.Append(ctx, t)
}

func (w *TranscriptArchiveWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
