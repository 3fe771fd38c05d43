package retire_test

import (
	"context"
	"fmt"

	"github.com/pavanmanishd/framearena"
	"github.com/pavanmanishd/framearena/retire"
)

// Example shows a frame loop where the consumer retires every frame right
// after reading it, so a single arena serves all of them.
func Example() {
	m, r := retire.New()

	for frame := 0; frame < 4; frame++ {
		a := m.GetAlloc()
		xs := framearena.CopySlice(a.Guard(), []int{frame, frame * frame})

		// Consumer side
		fmt.Println(a.Seq(), xs)
		r.RetireUpTo(a.Seq())
	}
	fmt.Println("arenas created:", m.Stats().Created)

	r.Cleanup()
	if err := m.WaitUntilCleanup(context.Background()); err != nil {
		fmt.Println(err)
	}
	m.Close()

	// Output:
	// 1 [0 0]
	// 2 [1 1]
	// 3 [2 4]
	// 4 [3 9]
	// arenas created: 1
}
