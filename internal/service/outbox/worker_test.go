package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type stubOutboxRepo struct {
	pending []domain.OutboxMessage
	sent    []string
	failed  []string
}

func (s *stubOutboxRepo) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	s.pending = append(s.pending, msg)
	return msg, nil
}

func (s *stubOutboxRepo) PullPending(limit int) ([]domain.OutboxMessage, error) {
	n := len(s.pending)
	if n > limit {
		n = limit
	}
	batch := make([]domain.OutboxMessage, n)
	copy(batch, s.pending[:n])
	return batch, nil
}

func (s *stubOutboxRepo) Stats() (domain.OutboxStats, error) {
	return domain.OutboxStats{PendingCount: len(s.pending)}, nil
}

func (s *stubOutboxRepo) MarkSent(id string) error {
	s.sent = append(s.sent, id)
	s.remove(id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(id string) error {
	s.failed = append(s.failed, id)
	s.remove(id)
	return nil
}

func (s *stubOutboxRepo) remove(id string) {
	for i, msg := range s.pending {
		if msg.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

type stubPublisher struct {
	published      []domain.OutboxMessage
	sequenceErrors []error
	calls          int
}

func (s *stubPublisher) Publish(event domain.OutboxMessage) error {
	s.calls++
	if len(s.sequenceErrors) > 0 {
		err := s.sequenceErrors[0]
		s.sequenceErrors = s.sequenceErrors[1:]
		if err != nil {
			return err
		}
	}
	s.published = append(s.published, event)
	return nil
}

func message(id string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: "order",
		AggregateID:   "order-" + id,
		EventType:     "OrderCreated",
		Payload:       []byte(`{"order_id":"order-` + id + `"}`),
	}
}

func TestProcessOnce_PublishesAndMarksSent(t *testing.T) {
	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{message("1"), message("2")}}
	publisher := &stubPublisher{}
	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0))

	worker.ProcessOnce(context.Background())

	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published messages, got %d", len(publisher.published))
	}
	if len(repo.sent) != 2 || repo.sent[0] != "1" || repo.sent[1] != "2" {
		t.Fatalf("unexpected sent ids: %v", repo.sent)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no failures, got %v", repo.failed)
	}
}

func TestProcessOnce_RetriesThenSucceeds(t *testing.T) {
	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{message("1")}}
	publisher := &stubPublisher{sequenceErrors: []error{errors.New("broker down"), nil}}
	worker := NewWorker(repo, publisher, WithMaxAttempts(3), WithRetryBaseDelay(0))

	worker.ProcessOnce(context.Background())

	if publisher.calls != 2 {
		t.Fatalf("expected 2 publish calls, got %d", publisher.calls)
	}
	if len(repo.sent) != 1 {
		t.Fatalf("expected message marked sent, got sent=%v failed=%v", repo.sent, repo.failed)
	}
}

func TestProcessOnce_ExhaustedRetriesGoToDLQ(t *testing.T) {
	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{message("1")}}
	brokerErr := errors.New("broker down")
	publisher := &stubPublisher{sequenceErrors: []error{brokerErr, brokerErr, brokerErr}}
	dlq := &stubPublisher{}
	worker := NewWorker(repo, publisher,
		WithMaxAttempts(3),
		WithRetryBaseDelay(0),
		WithDLQPublisher(dlq),
	)

	worker.ProcessOnce(context.Background())

	if publisher.calls != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", publisher.calls)
	}
	if len(repo.failed) != 1 || repo.failed[0] != "1" {
		t.Fatalf("expected message marked failed, got %v", repo.failed)
	}
	if len(dlq.published) != 1 {
		t.Fatalf("expected 1 DLQ message, got %d", len(dlq.published))
	}

	var envelope map[string]any
	if err := json.Unmarshal(dlq.published[0].Payload, &envelope); err != nil {
		t.Fatalf("unmarshal DLQ payload failed: %v", err)
	}
	if envelope["outbox_id"] != "1" {
		t.Fatalf("unexpected DLQ outbox_id: %v", envelope["outbox_id"])
	}
	if envelope["publish_error"] == "" || envelope["publish_error"] == nil {
		t.Fatal("expected publish_error in DLQ payload")
	}
}

func TestProcessOnce_NoDLQPublisherStillMarksFailed(t *testing.T) {
	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{message("1")}}
	publisher := &stubPublisher{sequenceErrors: []error{
		errors.New("e"), errors.New("e"), errors.New("e"),
	}}
	worker := NewWorker(repo, publisher, WithMaxAttempts(3), WithRetryBaseDelay(0))

	worker.ProcessOnce(context.Background())

	if len(repo.failed) != 1 {
		t.Fatalf("expected message marked failed, got %v", repo.failed)
	}
}

func TestProcessOnce_RespectsBatchSize(t *testing.T) {
	repo := &stubOutboxRepo{pending: []domain.OutboxMessage{message("1"), message("2"), message("3")}}
	publisher := &stubPublisher{}
	worker := NewWorker(repo, publisher, WithBatchSize(2), WithRetryBaseDelay(0))

	worker.ProcessOnce(context.Background())

	if len(repo.sent) != 2 {
		t.Fatalf("expected 2 messages processed, got %d", len(repo.sent))
	}
	if len(repo.pending) != 1 {
		t.Fatalf("expected 1 pending message left, got %d", len(repo.pending))
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &stubOutboxRepo{}
	publisher := &stubPublisher{}
	worker := NewWorker(repo, publisher, WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}

func TestRetryBackoff_Exponential(t *testing.T) {
	worker := NewWorker(&stubOutboxRepo{}, &stubPublisher{}, WithRetryBaseDelay(10*time.Millisecond))

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 10 * time.Millisecond},
		{2, 20 * time.Millisecond},
		{3, 40 * time.Millisecond},
		{4, 80 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := worker.retryBackoff(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %v, got %v", tc.attempt, tc.want, got)
		}
	}
}
