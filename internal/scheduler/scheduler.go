package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"fitness-backend/internal/timeutil"
)

// Job is a named daily task.
type Job struct {
	Name   string
	Hour   int
	Minute int
	Run    func(ctx context.Context) error
}

// Scheduler fires registered jobs once per day at their CST wall-clock time.
// It is injected into main and stopped on shutdown, so tests can drive jobs
// directly without any global state.
type Scheduler struct {
	mu   sync.Mutex
	jobs []Job

	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

func New() *Scheduler {
	return &Scheduler{now: timeutil.Now}
}

// AddDaily registers a job to run every day at hour:minute CST.
func (s *Scheduler) AddDaily(name string, hour, minute int, run func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, Job{Name: name, Hour: hour, Minute: minute, Run: run})
}

// Start launches one goroutine per job.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.mu.Lock()
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, job := range jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()
	for {
		wait := time.Until(NextRun(s.now(), job.Hour, job.Minute))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		log.Printf("[Scheduler] running %s", job.Name)
		if err := job.Run(ctx); err != nil {
			log.Printf("[Scheduler] %s failed: %v", job.Name, err)
		}
	}
}

// Stop cancels all job loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// NextRun returns the next instant after now that lands on hour:minute CST.
func NextRun(now time.Time, hour, minute int) time.Time {
	cst := now.In(timeutil.CST)
	next := time.Date(cst.Year(), cst.Month(), cst.Day(), hour, minute, 0, 0, timeutil.CST)
	if !next.After(cst) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
