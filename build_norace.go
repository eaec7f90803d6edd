//go:build !race

package gousset

const raceBuild = false
