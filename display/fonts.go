package display

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

type faceKey struct {
	size float64
	bold bool
}

// fontBook parses the embedded Go Mono fonts once and hands out faces by size
type fontBook struct {
	once    sync.Once
	err     error
	regular *truetype.Font
	bold    *truetype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

var fonts = &fontBook{faces: make(map[faceKey]font.Face)}

func (b *fontBook) load() error {
	b.once.Do(func() {
		b.regular, b.err = truetype.Parse(gomono.TTF)
		if b.err != nil {
			b.err = fmt.Errorf("failed to parse font: %w", b.err)
			return
		}
		b.bold, b.err = truetype.Parse(gomonobold.TTF)
		if b.err != nil {
			b.err = fmt.Errorf("failed to parse bold font: %w", b.err)
		}
	})
	return b.err
}

func (b *fontBook) face(size float64, bold bool) (font.Face, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	key := faceKey{size: size, bold: bold}
	if f, ok := b.faces[key]; ok {
		return f, nil
	}
	src := b.regular
	if bold {
		src = b.bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: size})
	b.faces[key] = f
	return f, nil
}
