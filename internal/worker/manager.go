package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second

	// DefaultSweepInterval is how often the expiry sweeper runs
	DefaultSweepInterval = time.Minute
)

// ExpiredStoryDeleter removes expired stories from durable storage and
// returns the removed ids so the index can be pruned.
type ExpiredStoryDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) ([]int64, error)
}

// Manager orchestrates worker goroutines that consume story events from
// Redis Streams, plus a sweeper goroutine that reaps expired stories.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	storyCache  cache.StoryCache
	deleter     ExpiredStoryDeleter
	workerCount int
	batchSize   int64
	blockTime   time.Duration
	sweepEvery  time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount   int           // Number of worker goroutines
	BatchSize     int64         // Messages per read
	BlockTimeout  time.Duration // Block time for XREADGROUP
	SweepInterval time.Duration // Expiry sweep cadence
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:   DefaultWorkerCount,
		BatchSize:     DefaultBatchSize,
		BlockTimeout:  DefaultBlockTimeout,
		SweepInterval: DefaultSweepInterval,
	}
}

// NewManager creates a new worker manager.
func NewManager(consumer queue.Consumer, handler *Handler, storyCache cache.StoryCache, deleter ExpiredStoryDeleter, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		storyCache:  storyCache,
		deleter:     deleter,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
		sweepEvery:  cfg.SweepInterval,
	}
}

// Start begins the worker and sweeper goroutines.
// Call Stop() to gracefully shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamStories, queue.ConsumerGroupStories); err != nil {
		return err
	}

	log.Printf("[Manager] Starting %d workers for stream=%s group=%s",
		m.workerCount, queue.StreamStories, queue.ConsumerGroupStories)

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		consumerName := consumerNameForWorker(workerID)

		m.wg.Add(1)
		go m.runWorker(workerID, consumerName)
	}

	m.wg.Add(1)
	go m.runSweeper()

	log.Printf("[Manager] All %d workers started (sweep every %v)", m.workerCount, m.sweepEvery)
	return nil
}

// Stop gracefully shuts down all workers.
// Blocks until all workers have finished.
func (m *Manager) Stop() {
	log.Printf("[Manager] Stopping workers...")
	m.cancel()
	m.wg.Wait()
	log.Printf("[Manager] All workers stopped")
}

// runWorker is the main loop for a single worker goroutine.
func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	log.Printf("[Worker-%d] Started (consumer=%s)", workerID, consumerName)

	// First, process any messages left in-flight by a previous run
	m.processPending(workerID, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			log.Printf("[Worker-%d] Shutting down", workerID)
			return
		default:
			m.processMessages(workerID, consumerName)
		}
	}
}

// runSweeper periodically reaps expired stories from the database and the
// index. The event stream keeps the index current for live traffic; the
// sweeper is what actually deletes expired rows.
func (m *Manager) runSweeper() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.sweepEvery)
	defer ticker.Stop()

	log.Printf("[Sweeper] Started (interval=%v)", m.sweepEvery)

	for {
		select {
		case <-m.ctx.Done():
			log.Printf("[Sweeper] Shutting down")
			return
		case <-ticker.C:
			m.Sweep(m.ctx, time.Now())
		}
	}
}

// Sweep deletes expired stories and prunes the index. Exposed so a sweep can
// be triggered outside the ticker.
func (m *Manager) Sweep(ctx context.Context, now time.Time) {
	ids, err := m.deleter.DeleteExpired(ctx, now)
	if err != nil {
		log.Printf("[Sweeper] DeleteExpired FAILED: %v", err)
		return
	}

	if len(ids) > 0 {
		log.Printf("[Sweeper] Deleted %d expired stories", len(ids))
		if err := m.storyCache.Remove(ctx, ids...); err != nil {
			log.Printf("[Sweeper] Index prune FAILED: %v", err)
		}
	}

	// Catch index entries whose rows were already gone
	if _, err := m.storyCache.RemoveExpired(ctx, now); err != nil {
		log.Printf("[Sweeper] RemoveExpired FAILED: %v", err)
	}
}

// processPending handles messages that were delivered but not acknowledged.
func (m *Manager) processPending(workerID int, consumerName string) {
	for {
		messages, err := m.consumer.ReadPending(m.ctx, queue.StreamStories, queue.ConsumerGroupStories, consumerName, m.batchSize)
		if err != nil {
			log.Printf("[Worker-%d] Error reading pending: %v", workerID, err)
			return
		}

		if len(messages) == 0 {
			return
		}

		log.Printf("[Worker-%d] Processing %d pending messages", workerID, len(messages))
		m.handleMessages(workerID, messages)
	}
}

// processMessages reads and handles a batch of messages.
func (m *Manager) processMessages(workerID int, consumerName string) {
	messages, err := m.consumer.Read(
		m.ctx,
		queue.StreamStories,
		queue.ConsumerGroupStories,
		consumerName,
		m.batchSize,
		m.blockTime,
	)
	if err != nil {
		log.Printf("[Worker-%d] Error reading: %v", workerID, err)
		time.Sleep(time.Second) // Back off on error
		return
	}

	if len(messages) == 0 {
		return // Timeout, no messages
	}

	m.handleMessages(workerID, messages)
}

// handleMessages processes a batch of messages and acknowledges them.
func (m *Manager) handleMessages(workerID int, messages []queue.Message) {
	for _, msg := range messages {
		err := m.handler.HandleEvent(m.ctx, msg.Event)
		if err != nil {
			log.Printf("[Worker-%d] Handler error msgID=%s: %v", workerID, msg.ID, err)
			// Still ACK to prevent infinite retry loops
		}

		if err := m.consumer.Ack(m.ctx, queue.StreamStories, queue.ConsumerGroupStories, msg.ID); err != nil {
			log.Printf("[Worker-%d] ACK error msgID=%s: %v", workerID, msg.ID, err)
		}
	}
}

// consumerNameForWorker generates a unique consumer name for each worker.
func consumerNameForWorker(workerID int) string {
	return fmt.Sprintf("worker-%d", workerID)
}
