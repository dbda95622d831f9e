package generation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PrefetchWorker warms the result cache for queued requests so interactive
// callers rarely pay the catalog fan-out latency.
type PrefetchWorker struct {
	service   *Service
	queue     <-chan GenerateRequest
	logger    zerolog.Logger
	timeout   time.Duration
	shutdownC chan struct{}
}

func NewPrefetchWorker(service *Service, queue <-chan GenerateRequest, logger zerolog.Logger, timeout time.Duration) *PrefetchWorker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PrefetchWorker{
		service:   service,
		queue:     queue,
		logger:    logger.With().Str("component", "prefetch_worker").Logger(),
		timeout:   timeout,
		shutdownC: make(chan struct{}),
	}
}

func (w *PrefetchWorker) Run() {
	for {
		select {
		case <-w.shutdownC:
			w.logger.Info().Msg("prefetch worker stopping")
			return
		case req := <-w.queue:
			w.handle(req)
		}
	}
}

func (w *PrefetchWorker) handle(req GenerateRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if _, err := w.service.Generate(ctx, req); err != nil {
		w.logger.Warn().Err(err).Msg("prefetch failed")
	}
}

func (w *PrefetchWorker) Stop() {
	close(w.shutdownC)
}
