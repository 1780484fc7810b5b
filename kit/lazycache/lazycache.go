// Package lazycache holds values derived on first use. Add a Value[T] field
// to a struct and read it through Get; the derivation runs once, and its
// error, if any, is remembered along with the value.
package lazycache

import "sync"

type Value[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (v *Value[T]) Get(derive func() (T, error)) (T, error) {
	v.once.Do(func() { v.val, v.err = derive() })
	return v.val, v.err
}
