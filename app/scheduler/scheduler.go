// Package scheduler keeps the aggregation cache warm in the background so
// interactive requests mostly hit fresh entries.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newspulse/app/aggregator"
	"newspulse/app/feed"
	"newspulse/app/sources"
)

type AggregatorInterface interface {
	Run(ctx context.Context, srcs []sources.Source, cacheKey string) ([]feed.Item, error)
}

type refreshTask struct {
	key  string
	srcs []sources.Source
}

// Scheduler periodically enqueues one refresh task per logical feed key and
// drains them with a small worker pool. The aggregator's own cache check
// makes a refresh of a still-fresh key a cheap no-op, so the scheduler does
// not track per-key freshness itself.
type Scheduler struct {
	aggregator  AggregatorInterface
	registry    *sources.Registry
	interval    time.Duration
	workerCount int

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan refreshTask

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewScheduler(agg AggregatorInterface, registry *sources.Registry,
	interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount <= 0 {
		workerCount = 3
	}

	return &Scheduler{
		aggregator:  agg,
		registry:    registry,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan refreshTask, 64),
		inFlight:    make(map[string]bool),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueRefreshTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueRefreshTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

// enqueueRefreshTasks queues one task per logical feed key: the full feed,
// each category, and the videos rail.
func (s *Scheduler) enqueueRefreshTasks() {
	groups := s.feedGroups()

	for _, task := range groups {
		s.mu.Lock()
		if s.inFlight[task.key] {
			s.mu.Unlock()
			continue
		}
		s.inFlight[task.key] = true
		s.mu.Unlock()

		select {
		case s.taskQueue <- task:
		case <-s.ctx.Done():
			s.release(task.key)
			return
		default:
			slog.Warn("Task queue is full, skipping refresh", "key", task.key)
			s.release(task.key)
		}
	}
}

func (s *Scheduler) feedGroups() []refreshTask {
	groups := []refreshTask{
		{key: aggregator.CacheKey(sources.Filter{}), srcs: s.registry.All()},
	}

	for _, category := range s.registry.Categories() {
		filter := sources.Filter{Category: category}
		groups = append(groups, refreshTask{
			key:  aggregator.CacheKey(filter),
			srcs: s.registry.List(filter),
		})
	}

	videoFilter := sources.Filter{Kind: sources.KindYouTube}
	if videoSources := s.registry.List(videoFilter); len(videoSources) > 0 {
		groups = append(groups, refreshTask{
			key:  aggregator.CacheKey(videoFilter),
			srcs: videoSources,
		})
	}

	return groups
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task refreshTask) {
	defer s.release(task.key)

	taskCtx, cancel := context.WithTimeout(s.ctx, 2*time.Minute)
	defer cancel()

	if _, err := s.aggregator.Run(taskCtx, task.srcs, task.key); err != nil {
		// Partial failures are absorbed inside the aggregator; the only
		// error surfacing here is a total outage for this key.
		slog.Warn("Background refresh degraded", "worker_id", workerID, "key", task.key, "error", err)
	}
}

func (s *Scheduler) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}
