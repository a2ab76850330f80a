//go:build !h7b0

package variant

var selected = H743
