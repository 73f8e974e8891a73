package discord

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCollectorDeliversOwnerClick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newCollector(clock)
	ctx := context.Background()

	got := make(chan Outcome, 1)
	go func() {
		out, _ := c.await(ctx, "m1", "U1", time.Minute)
		got <- out
	}()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if handled, accepted := c.deliver("m1", "U2", replaceCoach1); !handled || accepted {
		t.Fatalf("other user: handled=%v accepted=%v", handled, accepted)
	}
	if handled, _ := c.deliver("other", "U1", replaceCoach1); handled {
		t.Fatal("unknown message must not be handled")
	}
	if handled, accepted := c.deliver("m1", "U1", replaceCoach2); !handled || !accepted {
		t.Fatalf("owner: handled=%v accepted=%v", handled, accepted)
	}

	select {
	case out := <-got:
		if out.TimedOut || out.CustomID != replaceCoach2 {
			t.Fatalf("outcome = %+v", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("await did not return")
	}
	if handled, _ := c.deliver("m1", "U1", cancelReplace); handled {
		t.Fatal("second click must not be collected")
	}
}

func TestCollectorTimesOut(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newCollector(clock)
	ctx := context.Background()

	got := make(chan Outcome, 1)
	go func() {
		out, _ := c.await(ctx, "m1", "U1", replaceWindow)
		got <- out
	}()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}
	clock.Advance(replaceWindow)

	select {
	case out := <-got:
		if !out.TimedOut {
			t.Fatalf("outcome = %+v", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("await did not time out")
	}
	deadline := time.Now().Add(time.Second)
	for c.pending() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if c.pending() != 0 {
		t.Fatal("waiter not cleaned up")
	}
}

func TestCollectorContextCancel(t *testing.T) {
	c := newCollector(clockwork.NewFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.await(ctx, "m1", "U1", time.Minute); err == nil {
		t.Fatal("want context error")
	}
}

func TestCollectorKeepsClickBeforeAwait(t *testing.T) {
	c := newCollector(clockwork.NewFakeClock())
	release := c.expect("U1")
	defer release()

	// el click llega entre el post del prompt y el await
	if handled, accepted := c.deliver("m1", "U1", replaceCoach1); !handled || !accepted {
		t.Fatalf("early click: handled=%v accepted=%v", handled, accepted)
	}
	out, err := c.await(context.Background(), "m1", "U1", time.Minute)
	if err != nil || out.TimedOut || out.CustomID != replaceCoach1 {
		t.Fatalf("outcome = %+v err=%v", out, err)
	}
}

func TestCollectorStalePromptWithoutExpect(t *testing.T) {
	c := newCollector(clockwork.NewFakeClock())
	if handled, _ := c.deliver("m1", "U1", replaceCoach1); handled {
		t.Fatal("no prompt is opening, the click is stale")
	}
	release := c.expect("U1")
	if handled, _ := c.deliver("m2", "U1", "approve_add"); handled {
		t.Fatal("vote buttons are never collected")
	}
	c.deliver("m3", "U1", cancelReplace)
	release()
	if len(c.early) != 0 || len(c.opening) != 0 {
		t.Fatalf("release left state: early=%v opening=%v", c.early, c.opening)
	}
}
