// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command texbridge drives an off-screen frame loop through the external
// image protocol.
//
// Each frame draws a canvas image and a media image, hands both to the
// renderer through the dispatcher and presents the swap chain. With the
// software platform the last frame is written as a PNG.
//
// Settings come from a TOML file (-config) and are overridden by flags:
//
//	backend = "software"
//	width = 320
//	height = 240
//	frames = 3
//
//	[canvas]
//	width = 160
//	height = 120
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/extimage"
	"github.com/gogpu/texbridge/platform/halgpu"
	"github.com/gogpu/texbridge/platform/software"
	"github.com/gogpu/texbridge/provider"
	"github.com/gogpu/texbridge/surface"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	var (
		configPath = flag.String("config", "texbridge.toml", "configuration file")
		backend    = flag.String("backend", "", "platform backend (overrides config)")
		width      = flag.Int("width", 0, "surface width (overrides config)")
		height     = flag.Int("height", 0, "surface height (overrides config)")
		output     = flag.String("output", "", "output PNG (overrides config)")
		frames     = flag.Int("frames", 0, "frames to render (overrides config)")
		list       = flag.Bool("list", false, "list platform backends and exit")
	)
	flag.Parse()

	if *list {
		for _, name := range surface.List() {
			e, _ := surface.Get(name)
			fmt.Printf("%-10s priority=%-4d available=%v\n", name, e.Priority, e.Available())
		}
		return
	}

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *frames > 0 {
		cfg.Frames = *frames
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	level, _ := cfg.Level()
	texbridge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		log.Fatalf("texbridge: %v", err)
	}
}

func openConnection(name string) (surface.Connection, error) {
	if name == "" {
		return surface.OpenConnection()
	}
	return surface.OpenConnectionByName(name)
}

// textureCreator returns the creator of the platform behind d.
func textureCreator(d surface.Device) (gpucontext.TextureCreator, error) {
	type creatorSource interface {
		TextureCreator() gpucontext.TextureCreator
	}
	src, ok := d.(creatorSource)
	if !ok {
		return nil, fmt.Errorf("device %T cannot create textures", d)
	}
	return src.TextureCreator(), nil
}

func run(cfg *Config) error {
	access, _ := cfg.SurfaceAccess()

	conn, err := openConnection(cfg.Backend)
	if err != nil {
		return err
	}
	m, err := surface.NewManager(conn, nil,
		surface.ContextAttributes{Flags: surface.ContextAlpha},
		surface.GenericTarget(cfg.Size()),
		surface.WithInitialAccess(access),
		surface.WithRecycleLimit(cfg.RecycleLimit),
	)
	if err != nil {
		return err
	}
	defer m.Destroy()

	if err := m.MakeCurrent(); err != nil {
		return err
	}
	creator, err := textureCreator(m.Device())
	if err != nil {
		return err
	}
	textures := newTextureIndex(creator)

	dispatcher, registry := extimage.NewDispatcher()

	canvas, err := provider.NewCanvas(textures)
	if err != nil {
		return err
	}
	defer canvas.Close()
	dispatcher.SetProvider(extimage.KindCanvas, canvas)

	media := provider.NewMedia()
	defer media.Close()
	dispatcher.SetProvider(extimage.KindMedia, media)

	canvasID, err := canvas.Allocate(registry, cfg.Canvas.Width, cfg.Canvas.Height)
	if err != nil {
		return err
	}
	defer func() {
		canvas.Remove(canvasID.Uint64())
		registry.Remove(canvasID)
	}()

	var mediaID extimage.ID
	if cfg.Media.Enabled {
		if mediaID, err = media.Allocate(registry); err != nil {
			return err
		}
		defer func() {
			media.Detach(mediaID.Uint64())
			registry.Remove(mediaID)
		}()
	}

	layout := newLayout(cfg.Size())
	for frame := 0; frame < cfg.Frames; frame++ {
		if err := canvas.Draw(canvasID.Uint64(), func(img *image.RGBA) { paintCanvas(img, frame) }); err != nil {
			return err
		}
		if !mediaID.IsZero() {
			tex, err := textures.NewTextureFromRGBA(cfg.Media.Width, cfg.Media.Height,
				mediaFrame(cfg.Media.Width, cfg.Media.Height, frame))
			if err != nil {
				return err
			}
			if err := media.PushFrame(mediaID.Uint64(), tex); err != nil {
				return err
			}
		}

		r, err := newRenderer(m, dispatcher, textures)
		if err != nil {
			return err
		}
		if err := r.drawImage(canvasID, layout.canvas); err != nil {
			return err
		}
		if !mediaID.IsZero() {
			if err := r.drawImage(mediaID, layout.media); err != nil {
				return err
			}
		}
		if err := m.Present(); err != nil {
			return err
		}
	}

	return writeLastFrame(m, cfg.Output)
}

// newRenderer picks the renderer for the manager's platform. Software
// renderers draw into the surface bound for this frame.
func newRenderer(m *surface.Manager, d *extimage.Dispatcher, textures *textureIndex) (imageRenderer, error) {
	switch ctx := m.Context().(type) {
	case *software.Context:
		target := ctx.Pixels()
		if target == nil {
			return nil, surface.ErrNoBoundSurface
		}
		clear(target.Pix)
		return &cpuRenderer{dispatcher: d, textures: textures, target: target}, nil
	case *halgpu.Context:
		return &gpuRenderer{dispatcher: d, ctx: ctx}, nil
	default:
		return nil, fmt.Errorf("no renderer for context %T", ctx)
	}
}

func writeLastFrame(m *surface.Manager, path string) error {
	sc, err := m.SwapChain()
	if err != nil {
		return err
	}
	front := sc.TakeSurface()
	if front == nil {
		return fmt.Errorf("no frame presented")
	}
	defer sc.RecycleSurface(front)

	pixels := software.SurfacePixels(front)
	if pixels == nil {
		texbridge.Logger().Info("demo: frame presented on GPU, nothing to write", "surface", front.SurfaceID())
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, pixels); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Frame saved to %s (%dx%d)\n", path, pixels.Rect.Dx(), pixels.Rect.Dy())
	return nil
}

type layout struct {
	canvas image.Rectangle
	media  image.Rectangle
}

// newLayout puts the canvas on the left two thirds and the media image in
// the top right corner.
func newLayout(size texbridge.Size) layout {
	split := size.Width * 2 / 3
	side := min(size.Width-split, size.Height)
	return layout{
		canvas: image.Rect(0, 0, split, size.Height),
		media:  image.Rect(split, 0, split+side, side),
	}
}

// paintCanvas draws a gradient with a band that moves with frame.
func paintCanvas(img *image.RGBA, frame int) {
	b := img.Bounds()
	band := b.Min.Y + (frame*b.Dy()/8)%max(b.Dy(), 1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBA{
				R: uint8(255 * (x - b.Min.X) / max(b.Dx()-1, 1)),
				G: uint8(255 * (y - b.Min.Y) / max(b.Dy()-1, 1)),
				B: 96,
				A: 255,
			}
			if y >= band && y < band+4 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// mediaFrame returns a checkerboard whose phase changes every frame.
func mediaFrame(w, h, frame int) []byte {
	const cell = 8
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			v := uint8(40)
			if ((x/cell)+(y/cell)+frame)%2 == 0 {
				v = 220
			}
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return pix
}
