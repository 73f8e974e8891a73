package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Lo implementa RosterService
type Expirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

// Sweeper cierra los pedidos vencidos cada `every`. Corre una vez al arrancar
// para levantar lo que venció con el bot apagado.
type Sweeper struct {
	exp   Expirer
	clock clockwork.Clock
	every time.Duration
}

func NewSweeper(exp Expirer, clock clockwork.Clock, every time.Duration) *Sweeper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if every <= 0 {
		every = time.Minute
	}
	return &Sweeper{exp: exp, clock: clock, every: every}
}

// Run bloquea hasta que ctx se cancela.
func (w *Sweeper) Run(ctx context.Context) {
	w.tick(ctx)
	t := w.clock.NewTicker(w.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			w.tick(ctx)
		}
	}
}

func (w *Sweeper) tick(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()
	n, err := w.exp.ExpireDue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweeper: expire pending requests")
		return
	}
	if n > 0 {
		log.Info().Int("expired", n).Msg("sweeper: closed pending requests")
	}
}
