//go:build !debug

package gousset

const debugBuild = false
