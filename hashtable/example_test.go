package hashtable_test

import (
	"fmt"

	"github.com/hupe1980/arenakit/hashtable"
)

type counter struct {
	Hits uint64
}

func Example() {
	t := hashtable.New[counter](hashtable.WithInitialSize(8))
	defer t.Free()

	for _, h := range []uint64{3, 11, 3, 3, 19} {
		c, _, err := t.FindOrAdd(h, false)
		if err != nil {
			panic(err)
		}
		c.Hits++
	}

	c, _ := t.Get(3)
	fmt.Println(t.Len(), c.Hits)

	t.Remove(3, false)
	_, ok := t.Get(19)
	fmt.Println(t.Len(), ok)
	// Output:
	// 3 3
	// 2 true
}
