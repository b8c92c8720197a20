package lifelock_test

import (
	"fmt"
	"sync"

	"github.com/lifelockgo/lifelock/pkg/lifelock"
)

// connection demonstrates embedding a Barrier directly in a protected type,
// the pattern the original header describes for callers comfortable
// managing the arm/disarm ordering themselves rather than going through
// Cell. The Barrier must be disarmed early in Close, before any other
// teardown runs, exactly as the header recommends doing in a destructor.
type connection struct {
	lifelock.Barrier

	id int
}

func newConnection(id int) *connection {
	c := &connection{id: id}
	lifelock.Arm(&c.Barrier, c)
	return c
}

// Close tears the connection down. Disarm first: once it returns, no
// goroutine holding a Strong[connection] minted before this call can still
// be using c.
func (c *connection) Close() {
	c.Barrier.Disarm()
}

func Example_embeddedBarrier() {
	conn := newConnection(42)

	observer := lifelock.GetStrong(&conn.Barrier, conn)
	if !observer.Valid() {
		panic("expected a live observer before Close")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Println("observed connection id:", observer.Get().id)
		observer.Release()
	}()
	wg.Wait()

	conn.Close()
	fmt.Println("closed:", !conn.IsArmed())

	// Output:
	// observed connection id: 42
	// closed: true
}
