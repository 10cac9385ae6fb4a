package irregular

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

// TestConcurrentMatch tests that one Template can be compiled and matched
// from many goroutines at once.
func TestConcurrentMatch(t *testing.T) {
	methods := NewMethodTable().
		SetString("word", `\w+`).
		SetString("digits", `\d+`)

	tmpl := FromSource("(?<name>`word`)=(?<value>`digits`);?",
		WithFlags("g"), WithMethods(methods))

	input := "a=1;b=22;c=333"
	want := map[Key][]string{
		NameKey("name"):  {"a", "b", "c"},
		NameKey("value"): {"1", "22", "333"},
	}

	const numGoroutines = 50
	const numIterations = 50

	var wg sync.WaitGroup
	var failures atomic.Int64

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				res, err := tmpl.Match(input)
				if err != nil {
					failures.Add(1)
					continue
				}
				for k, v := range want {
					if !reflect.DeepEqual(res.Strings(k), v) {
						failures.Add(1)
					}
				}
			}
		}()
	}

	wg.Wait()

	if n := failures.Load(); n > 0 {
		t.Errorf("%d concurrent matches returned a wrong result", n)
	}
}
