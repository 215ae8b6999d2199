package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// WarmJobName identifica el job en el scheduler y en los logs.
const WarmJobName = "menu-cache-warm"

// Refresher reconstruye el árbol público y lo deja en caché.
type Refresher interface {
	Refresh(ctx context.Context) ([]menu.CategoryNode, error)
}

// CacheWarmer recalcula la carta pública cada cierto intervalo para que la
// primera visita después de expirar el TTL no pague la lectura completa.
type CacheWarmer struct {
	scheduler gocron.Scheduler
	refresher Refresher
	logger    logrus.FieldLogger
	interval  time.Duration
}

// NewCacheWarmer registra el job. interval 0 devuelve un warmer inactivo.
func NewCacheWarmer(refresher Refresher, interval time.Duration, logger logrus.FieldLogger) (*CacheWarmer, error) {
	warmer := &CacheWarmer{refresher: refresher, logger: logger, interval: interval}
	if interval <= 0 {
		return warmer, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(warmer.Warm, context.Background()),
		gocron.WithName(WarmJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("register %s job: %w", WarmJobName, err)
	}

	warmer.scheduler = scheduler
	return warmer, nil
}

// Enabled indica si hay un job programado.
func (warmer *CacheWarmer) Enabled() bool {
	return warmer.scheduler != nil
}

// Start arranca el scheduler.
func (warmer *CacheWarmer) Start() {
	if warmer.scheduler == nil {
		return
	}
	warmer.logger.WithField("interval", warmer.interval.String()).Info("cache warmer started")
	warmer.scheduler.Start()
}

// Stop espera a que termine la ejecución en curso y detiene el scheduler.
func (warmer *CacheWarmer) Stop() error {
	if warmer.scheduler == nil {
		return nil
	}
	return warmer.scheduler.Shutdown()
}

// Warm ejecuta un refresco. Los errores se loguean: el próximo tick reintenta.
func (warmer *CacheWarmer) Warm(ctx context.Context) {
	started := time.Now()
	tree, err := warmer.refresher.Refresh(ctx)
	entry := warmer.logger.WithFields(logrus.Fields{
		"job":         WarmJobName,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("menu cache warm failed")
		return
	}
	entry.WithField("categories", len(tree)).Debug("menu cache warmed")
}
