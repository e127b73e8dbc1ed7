//go:build !tinygo

package core

// defaultHalt panics so that a hosted process cannot silently continue
func defaultHalt(err *HaltError) {
	panic(err)
}
