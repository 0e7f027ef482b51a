//go:build debug

package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

// setEnv dumps all goroutines on SIGUSR1
func setEnv() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGUSR1)
	go func() {
		for range sigs {
			buf := make([]byte, 1<<20)
			n := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:n])
		}
	}()
}
