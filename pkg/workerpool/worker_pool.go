// Package workerpool provides a small, reusable fixed-size worker pool.
// fluentlog's core pipeline never blocks on I/O (spec §5), so any backend
// that talks to a network service — KafkaBackend chief among them — needs
// somewhere to hand off blocking work without holding up the caller's
// goroutine. This pool is that somewhere.
package workerpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Task is one unit of work submitted to the pool.
type Task struct {
	ID      string
	Execute func(ctx context.Context) error
	Created time.Time
}

// Worker pulls tasks off its own channel and runs them to completion.
type Worker struct {
	ID       int
	pool     *WorkerPool
	taskChan chan Task
	quit     chan struct{}
	active   int64
}

// WorkerPool is a fixed-size pool of workers fed by a single buffered
// queue, with a first-fit dispatcher and optional periodic stats
// logging.
type WorkerPool struct {
	workers   []*Worker
	taskQueue chan Task
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	logger    *logrus.Logger
	config    Config

	totalTasks     int64
	activeTasks    int64
	completedTasks int64
	failedTasks    int64

	isRunning bool
	mutex     sync.RWMutex
}

// Config configures a WorkerPool. Zero values are replaced with sane
// defaults by New.
type Config struct {
	MaxWorkers      int
	QueueSize       int
	WorkerTimeout   time.Duration
	ShutdownTimeout time.Duration
	EnableStatsLog  bool
	StatsInterval   time.Duration
}

// New builds a WorkerPool with config, applying defaults for any zero
// field, and wires its internal workers. Call Start to begin processing.
func New(config Config, logger *logrus.Logger) *WorkerPool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = config.MaxWorkers * 10
	}
	if config.WorkerTimeout == 0 {
		config.WorkerTimeout = 30 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 30 * time.Second
	}
	if config.StatsInterval == 0 {
		config.StatsInterval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		taskQueue: make(chan Task, config.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
		config:    config,
		workers:   make([]*Worker, 0, config.MaxWorkers),
	}

	for i := 0; i < config.MaxWorkers; i++ {
		pool.workers = append(pool.workers, &Worker{
			ID:       i,
			pool:     pool,
			taskChan: make(chan Task, 1),
			quit:     make(chan struct{}),
		})
	}
	return pool
}

// Start launches every worker, the dispatcher, and (if enabled) the stats
// logger. Safe to call more than once; later calls are no-ops while
// already running.
func (wp *WorkerPool) Start() error {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.isRunning {
		return nil
	}

	wp.logger.WithFields(logrus.Fields{
		"max_workers": wp.config.MaxWorkers,
		"queue_size":  wp.config.QueueSize,
	}).Info("starting worker pool")

	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run()
	}
	wp.wg.Add(1)
	go wp.dispatch()

	if wp.config.EnableStatsLog {
		wp.wg.Add(1)
		go wp.logStats()
	}

	wp.isRunning = true
	return nil
}

// Stop cancels outstanding work and waits up to ShutdownTimeout for every
// goroutine to exit.
func (wp *WorkerPool) Stop() error {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if !wp.isRunning {
		return nil
	}

	wp.cancel()
	for _, worker := range wp.workers {
		close(worker.quit)
	}

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.logger.Info("worker pool stopped")
	case <-time.After(wp.config.ShutdownTimeout):
		wp.logger.Warn("worker pool shutdown timed out")
	}

	wp.isRunning = false
	return nil
}

// Submit enqueues task, failing immediately if the queue is full or the
// pool has been stopped.
func (wp *WorkerPool) Submit(task Task) error {
	if !wp.isRunning {
		return ErrPoolNotRunning
	}
	task.Created = time.Now()
	atomic.AddInt64(&wp.totalTasks, 1)

	select {
	case wp.taskQueue <- task:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	default:
		atomic.AddInt64(&wp.failedTasks, 1)
		return ErrQueueFull
	}
}

// SubmitWithTimeout is Submit but blocks up to timeout for queue space
// instead of failing immediately.
func (wp *WorkerPool) SubmitWithTimeout(task Task, timeout time.Duration) error {
	if !wp.isRunning {
		return ErrPoolNotRunning
	}
	task.Created = time.Now()
	atomic.AddInt64(&wp.totalTasks, 1)

	select {
	case wp.taskQueue <- task:
		return nil
	case <-time.After(timeout):
		atomic.AddInt64(&wp.failedTasks, 1)
		return ErrTimeout
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Stats reports a snapshot of pool activity.
type Stats struct {
	MaxWorkers     int
	ActiveWorkers  int
	QueuedTasks    int
	QueueSize      int
	TotalTasks     int64
	ActiveTasks    int64
	CompletedTasks int64
	FailedTasks    int64
	IsRunning      bool
}

// Stats returns a point-in-time snapshot.
func (wp *WorkerPool) Stats() Stats {
	return Stats{
		MaxWorkers:     wp.config.MaxWorkers,
		ActiveWorkers:  wp.activeWorkerCount(),
		QueuedTasks:    len(wp.taskQueue),
		QueueSize:      wp.config.QueueSize,
		TotalTasks:     atomic.LoadInt64(&wp.totalTasks),
		ActiveTasks:    atomic.LoadInt64(&wp.activeTasks),
		CompletedTasks: atomic.LoadInt64(&wp.completedTasks),
		FailedTasks:    atomic.LoadInt64(&wp.failedTasks),
		IsRunning:      wp.isRunning,
	}
}

func (wp *WorkerPool) dispatch() {
	defer wp.wg.Done()
	for {
		select {
		case task := <-wp.taskQueue:
			wp.assign(task)
		case <-wp.ctx.Done():
			return
		}
	}
}

// assign hands task to the first worker, in index order, with spare
// channel capacity, falling back to a blocking send on worker 0 if every worker is
// currently busy.
func (wp *WorkerPool) assign(task Task) {
	for _, worker := range wp.workers {
		select {
		case worker.taskChan <- task:
			return
		default:
		}
	}
	select {
	case wp.workers[0].taskChan <- task:
	case <-wp.ctx.Done():
		atomic.AddInt64(&wp.failedTasks, 1)
	}
}

func (wp *WorkerPool) activeWorkerCount() int {
	active := 0
	for _, worker := range wp.workers {
		if atomic.LoadInt64(&worker.active) > 0 {
			active++
		}
	}
	return active
}

func (wp *WorkerPool) logStats() {
	defer wp.wg.Done()
	ticker := time.NewTicker(wp.config.StatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s := wp.Stats()
			wp.logger.WithFields(logrus.Fields{
				"active_workers":  s.ActiveWorkers,
				"queued_tasks":    s.QueuedTasks,
				"total_tasks":     s.TotalTasks,
				"completed_tasks": s.CompletedTasks,
				"failed_tasks":    s.FailedTasks,
			}).Debug("worker pool stats")
		case <-wp.ctx.Done():
			return
		}
	}
}

func (w *Worker) run() {
	defer w.pool.wg.Done()
	for {
		select {
		case task := <-w.taskChan:
			w.execute(task)
		case <-w.quit:
			return
		case <-w.pool.ctx.Done():
			return
		}
	}
}

func (w *Worker) execute(task Task) {
	atomic.StoreInt64(&w.active, 1)
	atomic.AddInt64(&w.pool.activeTasks, 1)
	defer func() {
		atomic.StoreInt64(&w.active, 0)
		atomic.AddInt64(&w.pool.activeTasks, -1)
	}()

	taskCtx, cancel := context.WithTimeout(w.pool.ctx, w.pool.config.WorkerTimeout)
	defer cancel()

	start := time.Now()
	err := task.Execute(taskCtx)
	duration := time.Since(start)

	fields := logrus.Fields{"worker_id": w.ID, "task_id": task.ID, "duration": duration}
	if err != nil {
		atomic.AddInt64(&w.pool.failedTasks, 1)
		w.pool.logger.WithFields(fields).WithError(err).Error("task execution failed")
		return
	}
	atomic.AddInt64(&w.pool.completedTasks, 1)
	w.pool.logger.WithFields(fields).Debug("task completed")
}

var (
	ErrPoolNotRunning = fmt.Errorf("worker pool is not running")
	ErrQueueFull      = fmt.Errorf("task queue is full")
	ErrTimeout        = fmt.Errorf("task submission timeout")
)
