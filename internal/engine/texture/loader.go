package texture

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type result struct {
	tex *Texture
	img image.Image
	err error
}

// Loader decodes texture files off the main thread and hands the results
// back through Poll, which must be called from the thread that owns the
// scene (the frame loop).
type Loader struct {
	dir     string
	log     *zap.Logger
	results chan result
	pending int
}

// NewLoader creates a loader resolving relative sources against dir.
func NewLoader(dir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		dir:     dir,
		log:     log,
		results: make(chan result, 16),
	}
}

func (l *Loader) path(source string) string {
	if filepath.IsAbs(source) || l.dir == "" {
		return source
	}
	return filepath.Join(l.dir, source)
}

// LoadNow reads and decodes t's source synchronously and resolves it.
func (l *Loader) LoadNow(t *Texture) error {
	img, err := l.decode(t.Source)
	if err != nil {
		return err
	}
	t.Resolve(img)
	return nil
}

// Start begins decoding t in the background.
func (l *Loader) Start(t *Texture) {
	l.pending++
	go func() {
		img, err := l.decode(t.Source)
		l.results <- result{tex: t, img: img, err: err}
	}()
}

// Pending returns the number of started loads not yet delivered by Poll.
func (l *Loader) Pending() int { return l.pending }

// Poll resolves textures whose decode finished. It never blocks. Failed
// loads are logged and leave the texture unresolved.
func (l *Loader) Poll() int {
	n := 0
	for {
		select {
		case r := <-l.results:
			l.pending--
			if r.err != nil {
				l.log.Warn("texture load failed", zap.String("source", r.tex.Source), zap.Error(r.err))
				continue
			}
			r.tex.Resolve(r.img)
			n++
		default:
			return n
		}
	}
}

func (l *Loader) decode(source string) (image.Image, error) {
	path := l.path(source)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	return Decode(path, data)
}
