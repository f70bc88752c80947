package workers

import (
	"context"
	"fmt"
	"sync"

	"storefront_backend/internal/logger"

	"github.com/robfig/cron/v3"
)

const subscriptionWorkerName = "subscription_expiry"

// SubscriptionExpirer помечает просроченные подписки как expired.
type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context) (int64, error)
}

type SubscriptionWorker struct {
	expirer SubscriptionExpirer
	cron    *cron.Cron

	mu  sync.Mutex
	ctx context.Context
}

// NewSubscriptionWorker планирует проверку подписок. schedule задаётся
// cron выражением из пяти полей или дескриптором вида "@every 1h".
func NewSubscriptionWorker(expirer SubscriptionExpirer, schedule string) (*SubscriptionWorker, error) {
	log := cronLogger{}
	w := &SubscriptionWorker{
		expirer: expirer,
		cron: cron.New(
			cron.WithLogger(log),
			cron.WithChain(cron.SkipIfStillRunning(log), cron.Recover(log)),
		),
		ctx: context.Background(),
	}

	if _, err := w.cron.AddFunc(schedule, w.run); err != nil {
		return nil, fmt.Errorf("invalid subscription expiry schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start запускает планировщик до отмены ctx.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	w.cron.Start()
	logger.WorkerLog(subscriptionWorkerName, "start", nil)

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		logger.WorkerLog(subscriptionWorkerName, "stop", nil)
	}()
}

// RunOnce выполняет одну проверку и возвращает число истёкших подписок.
func (w *SubscriptionWorker) RunOnce(ctx context.Context) (int64, error) {
	n, err := w.expirer.ExpireDue(ctx)
	if err != nil {
		logger.WorkerLog(subscriptionWorkerName, "expire", err)
		return 0, err
	}
	if n > 0 {
		logger.WorkerLog(subscriptionWorkerName, "expire", nil, "expired", n)
	}
	return n, nil
}

func (w *SubscriptionWorker) run() {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	_, _ = w.RunOnce(ctx)
}

// cronLogger перенаправляет вывод cron в логгер приложения.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
