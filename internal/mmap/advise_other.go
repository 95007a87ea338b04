//go:build !linux && !darwin

package mmap

func adviseSequential([]byte) {}
