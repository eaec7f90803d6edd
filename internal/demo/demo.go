// Package demo provides sleep-based and computational namespaces used to exercise
// instrumentation from the CLI and tests.
package demo

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ygrebnov/gousset"
)

// Namespace names.
const (
	ModuleAName = "module_a"
	ModuleBName = "module_b"
)

// ModuleA returns a namespace whose functions sleep for multiples of unit.
// slow_function calls fast_function through the namespace, so an instrumented
// fast_function is timed for those nested calls too.
func ModuleA(unit time.Duration) *gousset.Namespace {
	ns := gousset.NewNamespace(ModuleAName)
	ns.DefineFunc("fast_function", func(...any) (any, error) {
		time.Sleep(unit)
		return "fast result", nil
	})
	ns.DefineFunc("slow_function", func(...any) (any, error) {
		time.Sleep(5 * unit)
		if _, err := ns.Call("fast_function"); err != nil {
			return nil, err
		}
		return "slow result", nil
	})
	ns.DefineFunc("medium_function", func(...any) (any, error) {
		time.Sleep(3 * unit)
		return "medium result", nil
	})
	return ns
}

// ModuleB returns a namespace of small computations. factorial recurses through the
// namespace, so every level of the recursion is a separate timed call.
func ModuleB() *gousset.Namespace {
	ns := gousset.NewNamespace(ModuleBName)
	ns.DefineFunc("fibo", func(args ...any) (any, error) {
		n, err := intArg(args)
		if err != nil {
			return nil, err
		}
		return fibo(n), nil
	})
	ns.DefineFunc("factorial", func(args ...any) (any, error) {
		n, err := intArg(args)
		if err != nil {
			return nil, err
		}
		if n <= 1 {
			return big.NewInt(1), nil
		}
		prev, err := ns.Call("factorial", n-1)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Mul(prev.(*big.Int), big.NewInt(int64(n))), nil
	})
	ns.DefineFunc("sum_squares", func(args ...any) (any, error) {
		n, err := intArg(args)
		if err != nil {
			return nil, err
		}
		total := 0
		for i := 1; i <= n; i++ {
			total += i * i
		}
		return total, nil
	})
	return ns
}

// fibo returns the first n Fibonacci numbers.
func fibo(n int) []int {
	switch {
	case n <= 0:
		return []int{}
	case n == 1:
		return []int{0}
	}
	fibs := make([]int, 2, n)
	fibs[0], fibs[1] = 0, 1
	for i := 2; i < n; i++ {
		fibs = append(fibs, fibs[i-1]+fibs[i-2])
	}
	return fibs
}

func intArg(args []any) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	n, ok := args[0].(int)
	if !ok {
		return 0, fmt.Errorf("expected int argument, got %T", args[0])
	}
	return n, nil
}
