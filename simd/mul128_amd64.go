//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

//go:build amd64 && gc

package simd

import (
	"golang.org/x/sys/cpu"
)

var hasCLMUL = cpu.X86.HasPCLMULQDQ && cpu.X86.HasSSE2

//go:noescape
func mul128CLMUL(a, b, lo, hi *Block)

func mul128(a, b Block) (lo, hi Block) {
	if !hasCLMUL {
		return mul128Generic(a, b)
	}
	mul128CLMUL(&a, &b, &lo, &hi)
	return
}
