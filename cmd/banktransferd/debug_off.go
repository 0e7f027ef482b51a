//go:build !debug

package main

func setEnv() {}
