package render

import (
	"context"
	"image"
	"sync"

	"go.uber.org/zap"

	"photoreader/internal/display"
)

// Frame is a composed request.
type Frame struct {
	Request display.Request
	Image   image.Image
	Err     error
}

// Pipeline composes requests off the caller's goroutine. A new request
// cancels the one in flight, requests older than one already seen are
// ignored, and a finished frame is only delivered if nothing newer has been
// delivered before it.
type Pipeline struct {
	composer *Composer
	log      *zap.Logger
	onFrame  func(Frame)

	mu      sync.Mutex
	size    image.Point
	lastSeq uint64
	issued  uint64
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	deliverMu sync.Mutex
	delivered uint64
}

// NewPipeline returns a pipeline drawing on a stage of the given size.
func NewPipeline(c *Composer, size image.Point, log *zap.Logger, onFrame func(Frame)) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{composer: c, size: size, log: log, onFrame: onFrame}
}

// SetSize changes the stage size for subsequent frames.
func (p *Pipeline) SetSize(size image.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size = size
}

// Display implements the slideshow renderer.
func (p *Pipeline) Display(req display.Request) {
	p.mu.Lock()
	if req.Seq != 0 && req.Seq < p.lastSeq {
		p.mu.Unlock()
		p.log.Debug("Dropping stale render request", zap.Uint64("seq", req.Seq))
		return
	}
	p.lastSeq = max(p.lastSeq, req.Seq)
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.issued++
	ticket := p.issued
	size := p.size
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer cancel()
		img, err := p.composer.Compose(ctx, req, size)
		if ctx.Err() != nil {
			return
		}
		p.deliver(ticket, Frame{Request: req, Image: img, Err: err})
	}()
}

func (p *Pipeline) deliver(ticket uint64, f Frame) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()
	if ticket <= p.delivered {
		return
	}
	p.delivered = ticket
	if f.Err != nil {
		p.log.Warn("Frame rendered with errors", zap.Uint64("seq", f.Request.Seq), zap.Error(f.Err))
	}
	if p.onFrame != nil {
		p.onFrame(f)
	}
}

// Close cancels the frame in flight and waits for workers to finish.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
}
