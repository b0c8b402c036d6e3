package flock

import (
	"sync"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
)

// parallelThreshold is the minimum bird count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk represents a range of birds for a worker to process.
type workChunk struct {
	start, end int
}

// parallelAligner runs the all-pairs search on a pool of persistent workers.
// Workers read the frozen trig caches and write disjoint ranges of dst.
type parallelAligner struct {
	radiusSq   float64
	numWorkers int

	// Inputs of the step in flight; published before chunks are sent
	dst []float64
	e   *Ensemble

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelAligner(radiusSq float64, workers int) *parallelAligner {
	return &parallelAligner{
		radiusSq:   radiusSq,
		numWorkers: workers,
	}
}

func (p *parallelAligner) Name() string { return config.BackendParallel }

// startWorkers launches persistent worker goroutines.
func (p *parallelAligner) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Close signals all workers to exit and waits for them.
func (p *parallelAligner) Close() error {
	if !p.running {
		return nil
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
	return nil
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelAligner) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			alignRange(p.dst, p.e, p.radiusSq, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

func (p *parallelAligner) Align(dst []float64, e *Ensemble) {
	n := e.Len()
	if n < parallelThreshold || p.numWorkers < 2 {
		alignRange(dst, e, p.radiusSq, 0, n)
		return
	}

	p.startWorkers()
	p.dst, p.e = dst, e

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	chunks := 0
	for start := 0; start < n; start += chunkSize {
		p.workChan <- workChunk{start: start, end: min(start+chunkSize, n)}
		chunks++
	}
	for i := 0; i < chunks; i++ {
		<-p.doneChan
	}

	p.dst, p.e = nil, nil
}
