package bot

import (
	"context"
	"sync"

	"github.com/xaenox/router-bot/internal/models"
)

// chatQueue runs handle for each message, one message at a time per chat and
// in arrival order. Different chats are drained concurrently.
type chatQueue struct {
	handle func(ctx context.Context, msg models.InboundMessage)

	mu      sync.Mutex
	pending map[int64][]models.InboundMessage
	wg      sync.WaitGroup
}

func newChatQueue(handle func(ctx context.Context, msg models.InboundMessage)) *chatQueue {
	return &chatQueue{
		handle:  handle,
		pending: make(map[int64][]models.InboundMessage),
	}
}

func (q *chatQueue) enqueue(ctx context.Context, msg models.InboundMessage) {
	q.mu.Lock()
	backlog := q.pending[msg.ChatID]
	q.pending[msg.ChatID] = append(backlog, msg)
	start := len(backlog) == 0
	if start {
		q.wg.Add(1)
	}
	q.mu.Unlock()

	if start {
		go q.drain(ctx, msg.ChatID)
	}
}

// drain owns a chat until its backlog is empty. The head of the backlog stays
// in place while it is being handled so that enqueue sees the chat as busy.
func (q *chatQueue) drain(ctx context.Context, chatID int64) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		msg := q.pending[chatID][0]
		q.mu.Unlock()

		q.handle(ctx, msg)

		q.mu.Lock()
		rest := q.pending[chatID][1:]
		if len(rest) == 0 {
			delete(q.pending, chatID)
			q.mu.Unlock()
			return
		}
		q.pending[chatID] = rest
		q.mu.Unlock()
	}
}

// wait blocks until every queued message has been handled.
func (q *chatQueue) wait() {
	q.wg.Wait()
}
