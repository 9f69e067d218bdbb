package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger 定时触发器。只负责按节奏调用任务并记录最近一次运行的
// 起止时间做观测用；正确性由任务自身的幂等查询保证，错过或重叠
// 的触发都无害，重叠时直接跳过。
type Trigger struct {
	cron   *cron.Cron
	job    func(ctx context.Context)
	budget time.Duration

	mu           sync.Mutex
	running      bool
	lastStarted  time.Time
	lastFinished time.Time
}

// Start 在指定时区按cron表达式调度任务，budget为单次运行的执行预算
func Start(spec, timezone string, budget time.Duration, job func(ctx context.Context)) (*Trigger, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	t := &Trigger{
		cron:   cron.New(cron.WithLocation(location)),
		job:    job,
		budget: budget,
	}

	if _, err := t.cron.AddFunc(spec, t.run); err != nil {
		return nil, err
	}

	t.cron.Start()
	slog.Info("[Scheduler] Trigger started", "spec", spec, "timezone", timezone)
	return t, nil
}

func (t *Trigger) run() {
	t.mu.Lock()
	if t.running {
		// 上一轮还没跑完，下一轮会通过同样的幂等查询补上
		t.mu.Unlock()
		slog.Info("[Scheduler] Previous run still in progress, skipping")
		return
	}
	t.running = true
	t.lastStarted = time.Now()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.lastFinished = time.Now()
		t.mu.Unlock()
	}()

	ctx := context.Background()
	if t.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.budget)
		defer cancel()
	}

	t.job(ctx)
}

// RunNow 手工触发一轮（运维入口），与定时触发走同一条路径
func (t *Trigger) RunNow() {
	go t.run()
}

func (t *Trigger) Stop() {
	t.cron.Stop()
}

// LastRun 最近一次运行的观测信息
func (t *Trigger) LastRun() (started, finished time.Time, running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastStarted, t.lastFinished, t.running
}
