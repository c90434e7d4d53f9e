package testutil

import (
	"math/big"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// Assertions extends require.Assertions to support comparison of values holding big integers.
type Assertions struct {
	*require.Assertions
}

var (
	bigIntType = reflect.TypeOf((*big.Int)(nil))

	cmpOptions = []cmp.Option{
		cmp.Comparer(func(x, y *big.Int) bool {
			if x == nil || y == nil {
				return x == y
			}
			return x.Cmp(y) == 0
		}),
		cmpopts.EquateEmpty(),
	}
)

func Require(t require.TestingT) *Assertions {
	return &Assertions{
		Assertions: require.New(t),
	}
}

func (a *Assertions) Equal(expected interface{}, actual interface{}, msgAndArgs ...interface{}) {
	// Equal big.Ints may hold a nil or an empty slice of words (e.g. zero from NewInt vs. from Sub),
	// which fails the reflection-based equality check in testify/require.
	if containsBigInt(reflect.TypeOf(expected)) && containsBigInt(reflect.TypeOf(actual)) {
		if diff := cmp.Diff(expected, actual, cmpOptions...); diff != "" {
			a.FailNow(diff, msgAndArgs...)
		}
		return
	}

	// Otherwise, fall back to require.Equal.
	a.Assertions.Equal(expected, actual, msgAndArgs...)
}

func containsBigInt(t reflect.Type) bool {
	return containsBigIntVisited(t, make(map[reflect.Type]bool))
}

func containsBigIntVisited(t reflect.Type, visited map[reflect.Type]bool) bool {
	if t == nil || visited[t] {
		return false
	}
	visited[t] = true

	if t == bigIntType {
		return true
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return containsBigIntVisited(t.Elem(), visited)
	case reflect.Map:
		return containsBigIntVisited(t.Key(), visited) || containsBigIntVisited(t.Elem(), visited)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsBigIntVisited(t.Field(i).Type, visited) {
				return true
			}
		}
	}

	return false
}
