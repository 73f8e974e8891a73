package discord

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Outcome de una espera de click: o hubo click (CustomID) o se venció.
type Outcome struct {
	TimedOut bool
	CustomID string
}

type waiter struct {
	userID string
	ch     chan string
}

// collector junta clicks de botones sobre un mensaje puntual durante una ventana.
// Un solo click por espera; sólo cuenta el usuario que abrió el prompt.
type collector struct {
	mu      sync.Mutex
	waiting map[string]waiter // por message id
	opening map[string]int    // por user id: prompts publicándose todavía sin waiter
	early   map[string]click  // por message id: clicks llegados antes del await
	clock   clockwork.Clock
}

type click struct {
	userID   string
	customID string
}

func newCollector(clock clockwork.Clock) *collector {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &collector{
		waiting: map[string]waiter{},
		opening: map[string]int{},
		early:   map[string]click{},
		clock:   clock,
	}
}

// expect se llama antes de publicar el prompt: entre el post y el await el id del
// mensaje todavía no está registrado y el click se guarda en early.
// Devuelve el release, que va en defer.
func (c *collector) expect(userID string) func() {
	c.mu.Lock()
	c.opening[userID]++
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.opening[userID]--; c.opening[userID] > 0 {
			return
		}
		delete(c.opening, userID)
		for id, cl := range c.early {
			if cl.userID == userID {
				delete(c.early, id)
			}
		}
	}
}

func isPromptButton(customID string) bool {
	switch customID {
	case replaceCoach1, replaceCoach2, cancelReplace:
		return true
	}
	return false
}

// await bloquea hasta el click, el timeout o ctx.
func (c *collector) await(ctx context.Context, messageID, userID string, timeout time.Duration) (Outcome, error) {
	w := waiter{userID: userID, ch: make(chan string, 1)}
	c.mu.Lock()
	if cl, ok := c.early[messageID]; ok {
		delete(c.early, messageID)
		if cl.userID == userID {
			c.mu.Unlock()
			return Outcome{CustomID: cl.customID}, nil
		}
	}
	c.waiting[messageID] = w
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.waiting, messageID)
		c.mu.Unlock()
	}()

	t := c.clock.NewTimer(timeout)
	defer t.Stop()
	select {
	case id := <-w.ch:
		return Outcome{CustomID: id}, nil
	case <-t.Chan():
		return Outcome{TimedOut: true}, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// deliver entrega el click si alguien espera en ese mensaje.
// handled=false: no es nuestro, sigue el dispatch normal. accepted=false: lo clickeó otro.
func (c *collector) deliver(messageID, userID, customID string) (handled, accepted bool) {
	c.mu.Lock()
	w, ok := c.waiting[messageID]
	if ok && w.userID == userID {
		delete(c.waiting, messageID)
	}
	if !ok && c.opening[userID] > 0 && isPromptButton(customID) {
		if _, dup := c.early[messageID]; !dup {
			c.early[messageID] = click{userID: userID, customID: customID}
		}
		c.mu.Unlock()
		return true, true
	}
	c.mu.Unlock()
	if !ok {
		return false, false
	}
	if w.userID != userID {
		return true, false
	}
	w.ch <- customID
	return true, true
}

// pending: cuántas esperas hay abiertas (tests / logs).
func (c *collector) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiting)
}
