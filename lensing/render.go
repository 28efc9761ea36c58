package lensing

import (
	"image/color"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/cosmos/camera"
	"github.com/pthm-cable/cosmos/shading"
)

// parallelThreshold is the minimum row count to fan out across workers.
const parallelThreshold = 16

// rowChunk is a range of rows for a worker to shade.
type rowChunk struct {
	start, end int
}

// frame is the read-only input shared by workers for one Render call.
type frame struct {
	pose camera.Pose
	lens LensParams
	bg   Background
	w, h int
	dst  []color.RGBA
}

// Renderer evaluates the lens for every pixel of a low-resolution frame.
// Rows are independent, so they are shaded by a persistent worker pool.
type Renderer struct {
	numWorkers int
	cur        frame

	workChan chan rowChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewRenderer creates a renderer sized to GOMAXPROCS.
func NewRenderer() *Renderer {
	return &Renderer{numWorkers: runtime.GOMAXPROCS(0)}
}

// Start launches the worker goroutines.
func (r *Renderer) Start() {
	if r.running || r.numWorkers < 2 {
		return
	}
	r.workChan = make(chan rowChunk, r.numWorkers)
	r.doneChan = make(chan struct{}, r.numWorkers)
	r.stopChan = make(chan struct{})
	r.running = true

	for i := 0; i < r.numWorkers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (r *Renderer) Stop() {
	if !r.running {
		return
	}
	close(r.stopChan)
	r.wg.Wait()
	close(r.workChan)
	close(r.doneChan)
	r.running = false
}

func (r *Renderer) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.stopChan:
			return
		case chunk := <-r.workChan:
			shadeRows(&r.cur, chunk.start, chunk.end)
			r.doneChan <- struct{}{}
		}
	}
}

// Render shades a w*h frame into dst (reused when large enough) and
// returns it. Pixels are row-major with row 0 at the top of the screen.
func (r *Renderer) Render(pose camera.Pose, lens LensParams, bg Background, w, h int, dst []color.RGBA) []color.RGBA {
	if w <= 0 || h <= 0 {
		return dst[:0]
	}
	if cap(dst) < w*h {
		dst = make([]color.RGBA, w*h)
	}
	dst = dst[:w*h]

	r.cur = frame{pose: pose, lens: lens.WithPose(pose), bg: bg, w: w, h: h, dst: dst}
	defer func() { r.cur = frame{} }()

	if !r.running || h < parallelThreshold {
		shadeRows(&r.cur, 0, h)
		return dst
	}

	chunkSize := (h + r.numWorkers - 1) / r.numWorkers
	chunks := 0
	for start := 0; start < h; start += chunkSize {
		end := min(start+chunkSize, h)
		r.workChan <- rowChunk{start: start, end: end}
		chunks++
	}
	for i := 0; i < chunks; i++ {
		<-r.doneChan
	}
	return dst
}

// Render shades a frame on the calling goroutine.
func Render(pose camera.Pose, lens LensParams, bg Background, w, h int, dst []color.RGBA) []color.RGBA {
	var r Renderer
	return r.Render(pose, lens, bg, w, h, dst)
}

func shadeRows(f *frame, start, end int) {
	origin := f.lens.Camera
	for y := start; y < end; y++ {
		v := (float32(y) + 0.5) / float32(f.h)
		for x := 0; x < f.w; x++ {
			u := (float32(x) + 0.5) / float32(f.w)
			d := f.pose.Ray(u, v)
			dir := r3.Vec{X: float64(d[0]), Y: float64(d[1]), Z: float64(d[2])}
			f.dst[y*f.w+x] = shading.ToRGBA(Sample(origin, dir, f.lens, f.bg))
		}
	}
}
