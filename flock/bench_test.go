package flock

import (
	"io"
	"testing"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
)

func benchmarkAlign(b *testing.B, backend string, n int) {
	p := DefaultParams()
	a, err := newAligner(backend, p, 0)
	if err != nil {
		b.Fatal(err)
	}
	if c, ok := a.(io.Closer); ok {
		defer c.Close()
	}

	e := newEnsemble(n, p, newRNG(p.Seed))
	e.freeze()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.Align(e.next, e)
	}
}

func BenchmarkAlignScalar1000(b *testing.B)   { benchmarkAlign(b, config.BackendScalar, 1000) }
func BenchmarkAlignVector1000(b *testing.B)   { benchmarkAlign(b, config.BackendVector, 1000) }
func BenchmarkAlignGrid1000(b *testing.B)     { benchmarkAlign(b, config.BackendGrid, 1000) }
func BenchmarkAlignParallel1000(b *testing.B) { benchmarkAlign(b, config.BackendParallel, 1000) }
func BenchmarkAlignGrid10000(b *testing.B)    { benchmarkAlign(b, config.BackendGrid, 10000) }

func BenchmarkRun(b *testing.B) {
	for _, backend := range config.Backends {
		b.Run(backend, func(b *testing.B) {
			eng, err := NewEngine(DefaultParams(), backend)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := eng.Run(20, 500); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
