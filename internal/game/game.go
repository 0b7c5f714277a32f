// Package game wires the room together and runs the main loop.
package game

import (
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/gambo89/gambo-room/internal/assets"
	"github.com/gambo89/gambo-room/internal/config"
	"github.com/gambo89/gambo-room/internal/engine/audio"
	"github.com/gambo89/gambo-room/internal/engine/camera"
	"github.com/gambo89/gambo-room/internal/engine/debug"
	"github.com/gambo89/gambo-room/internal/engine/framebuffer"
	"github.com/gambo89/gambo-room/internal/engine/input"
	"github.com/gambo89/gambo-room/internal/engine/lighting"
	"github.com/gambo89/gambo-room/internal/engine/picking"
	"github.com/gambo89/gambo-room/internal/engine/renderer"
	"github.com/gambo89/gambo-room/internal/engine/texture"
	"github.com/gambo89/gambo-room/internal/engine/ui2d"
	"github.com/gambo89/gambo-room/internal/engine/window"
	"github.com/gambo89/gambo-room/internal/logger"
	"github.com/gambo89/gambo-room/internal/room/hints"
	"github.com/gambo89/gambo-room/internal/room/interact"
	"github.com/gambo89/gambo-room/internal/room/nightvision"
	"github.com/gambo89/gambo-room/internal/room/scene"
	"github.com/gambo89/gambo-room/internal/room/speaker"
	"github.com/gambo89/gambo-room/internal/room/tv"
	"github.com/gambo89/gambo-room/pkg/math"
)

// Day/night mood lighting.
var (
	daySunColor   = [3]float32{1.0, 0.95, 0.85}
	nightSunColor = [3]float32{0.15, 0.18, 0.3}
	lampColor     = [3]float32{1.0, 0.82, 0.6}
	screenGlow    = [3]float32{0.6, 0.7, 1.0}
)

const (
	dayAmbient   = 0.35
	nightAmbient = 0.08

	cameraFOV  = float32(0.96) // ~55 degrees
	cameraNear = float32(0.05)
	cameraFar  = float32(100)
)

// Game owns every subsystem of the room and the main loop.
type Game struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	ui       *ui2d.Renderer
	input    *input.Input

	assets  *assets.Manager
	tracker *assets.Tracker
	audio   *audio.Manager

	cam    *camera.OrbitCamera
	lights *lighting.PointLightBuffer

	objects  []scene.Object
	manifest *scene.Manifest

	tvSet   *tv.TV
	overlay *tv.Overlay

	press    *interact.Press
	glow     *interact.Glow
	tooltip  *hints.Tooltip
	playlist *speaker.Playlist
	router   *interact.Router

	autogain *nightvision.AutoGain
	sampler  *nightvision.FrameSampler
	post     *nightvision.PostPass
	sceneFBO *framebuffer.Framebuffer

	screenTex   *texture.Texture
	overlayTex  *texture.Texture
	screenshots *debug.ScreenshotCapture

	lampOn bool

	mouseX, mouseY int
	camDragging    bool
	elapsed        float64
}

// New builds the room. The OpenGL context is created here, so New must run
// on the main thread.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		lampOn: true,
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      "gambo room",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.ui, err = ui2d.New(cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create 2D renderer: %w", err)
	}

	g.input = input.New()

	g.assets = assets.NewManager(cfg.Room.AssetsDir)
	g.tracker = assets.NewTracker()

	g.audio = audio.New()
	if err := g.audio.Init(); err != nil {
		// The room stays usable without sound.
		logger.Warn("audio device unavailable", zap.Error(err))
	}
	if cfg.Audio.Muted {
		g.audio.SetMasterVolume(0)
	} else {
		g.audio.SetMasterVolume(cfg.Audio.MasterVolume)
	}
	g.audio.SetTrackVolume(cfg.Audio.MusicVolume)

	g.objects, err = scene.LoadObjects(cfg.Room.ScenePath)
	if err != nil {
		g.Close()
		return nil, err
	}
	g.manifest, err = scene.Resolve(g.objects, cfg.Room.PropLinks)
	if err != nil {
		g.Close()
		return nil, err
	}

	loader := tv.NewLoader(g.assets, g.tracker)
	g.tvSet = tv.New(cfg.Playlists.Photos, cfg.Playlists.Videos, cfg.Playlists.Models, loader)
	g.overlay = tv.NewOverlay(g.tvSet, func(on bool) {
		if err := g.window.SetFullscreen(on); err != nil {
			logger.Warn("fullscreen toggle failed", zap.Error(err))
		}
	})

	g.press = interact.NewPress()
	g.glow = interact.NewGlow()
	g.tooltip = hints.NewTooltip()
	g.playlist = speaker.NewPlaylist(g.audio, g.assets.Load, cfg.Playlists.Speaker)

	g.router = interact.NewRouter(
		g.manifest, g.tvSet, g.overlay,
		g.press, g.glow, g.tooltip, g.playlist,
		g.toggleLamp,
		func() math.Mat4 { return g.renderer.InvViewProj() },
	)
	g.router.SetViewport(0, 0, float32(cfg.Graphics.Width), float32(cfg.Graphics.Height))

	g.sceneFBO, err = framebuffer.New(int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("scene framebuffer: %w", err)
	}
	g.sampler, err = nightvision.NewFrameSampler(g.drawScene)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("night vision sampler: %w", err)
	}
	g.autogain = nightvision.NewAutoGain(g.sampler)
	g.post, err = nightvision.NewPostPass()
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("night vision pass: %w", err)
	}

	g.screenTex = texture.New(tv.BufferW, tv.BufferH)
	g.screenshots = debug.NewScreenshotCapture("screenshots", "room")

	g.lights = lighting.NewPointLightBuffer()
	g.cam = camera.NewOrbitCamera()
	g.frameRoom()

	if lamp := g.manifest.Handle(scene.RoleLamp); lamp != nil {
		lamp.Visual.Emissive = lampColor
		lamp.Visual.EmissiveIntensity = 1
	}

	logger.Info("room initialized",
		zap.Int("objects", len(g.objects)),
		zap.Int("photos", len(cfg.Playlists.Photos)),
		zap.Int("videos", len(cfg.Playlists.Videos)),
		zap.Int("models", len(cfg.Playlists.Models)),
	)
	return g, nil
}

// frameRoom points the camera at the union of all scene bounds.
func (g *Game) frameRoom() {
	if len(g.objects) == 0 {
		return
	}
	b := g.objects[0].Bounds
	for _, obj := range g.objects[1:] {
		for i := 0; i < 3; i++ {
			if obj.Bounds[i] < b[i] {
				b[i] = obj.Bounds[i]
			}
			if obj.Bounds[i+3] > b[i+3] {
				b[i+3] = obj.Bounds[i+3]
			}
		}
	}
	g.cam.FitToBounds(b[0], b[1], b[2], b[3], b[4], b[5])
}

// toggleLamp flips the room mood. Lamp off doubles as night vision on,
// one click switches both.
func (g *Game) toggleLamp() {
	g.lampOn = !g.lampOn
	g.autogain.SetEnabled(!g.lampOn)

	if lamp := g.manifest.Handle(scene.RoleLamp); lamp != nil {
		if g.lampOn {
			lamp.Visual.Emissive = lampColor
			lamp.Visual.EmissiveIntensity = 1
		} else {
			lamp.Visual.EmissiveIntensity = 0
		}
	}
	logger.Info("lamp toggled", zap.Bool("on", g.lampOn))
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		g.update(dt)
		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("frames", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			g.resize(ev.Width, ev.Height)

		case input.EventFullscreenChange:
			g.overlay.HandleFullscreenChange(ev.Fullscreen)

		case input.EventMouseLeave:
			g.router.PointerLeave()

		case input.EventKeyDown:
			g.handleKey(ev.Key)

		case input.EventMouseDown:
			g.mouseX, g.mouseY = ev.MouseX, ev.MouseY
			switch ev.Button {
			case sdl.BUTTON_LEFT:
				g.router.PointerDown(float32(ev.MouseX), float32(ev.MouseY))
			case sdl.BUTTON_RIGHT:
				g.camDragging = true
			}

		case input.EventMouseUp:
			switch ev.Button {
			case sdl.BUTTON_LEFT:
				g.router.PointerUp()
			case sdl.BUTTON_RIGHT:
				g.camDragging = false
			}

		case input.EventMouseMove:
			dx := float32(ev.MouseX - g.mouseX)
			dy := float32(ev.MouseY - g.mouseY)
			g.mouseX, g.mouseY = ev.MouseX, ev.MouseY
			if g.camDragging && !g.overlay.IsOpen() {
				g.cam.HandleDrag(dx, dy)
			} else {
				g.router.PointerMove(float32(ev.MouseX), float32(ev.MouseY))
			}

		case input.EventMouseWheel:
			if !g.overlay.IsOpen() {
				g.cam.HandleZoom(ev.WheelY)
			}
		}
	}
}

func (g *Game) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		if g.overlay.IsOpen() {
			g.overlay.Close()
		} else {
			g.running = false
		}

	case sdl.SCANCODE_SPACE:
		if g.overlay.IsOpen() {
			g.overlay.TogglePlayback()
		}

	case sdl.SCANCODE_LEFT:
		if g.overlay.IsOpen() {
			g.overlay.Prev()
		}

	case sdl.SCANCODE_RIGHT:
		if g.overlay.IsOpen() {
			g.overlay.Next()
		}

	case sdl.SCANCODE_F12:
		w, h := g.renderer.Size()
		if path, err := g.screenshots.CaptureFromPixels(g.renderer.ReadPixels(), w, h); err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}
}

func (g *Game) resize(width, height int) {
	g.renderer.Resize(width, height)
	g.ui.Resize(width, height)
	g.sceneFBO.Resize(int32(width), int32(height))
	g.router.SetViewport(0, 0, float32(width), float32(height))
}

func (g *Game) update(dt time.Duration) {
	g.elapsed += dt.Seconds()

	g.tvSet.Update(dt)
	g.overlay.Update(dt)
	g.router.Update(dt)
	g.tooltip.Update(dt)
	g.autogain.Update(dt)

	// Feedback wrote hover glow into the manifest above; a lit lamp's
	// steady emissive outranks it.
	if lamp := g.manifest.Handle(scene.RoleLamp); lamp != nil && g.lampOn {
		if lamp.Visual.EmissiveIntensity < 1 {
			lamp.Visual.Emissive = lampColor
			lamp.Visual.EmissiveIntensity = 1
		}
	}

	// The power animator owns the screen's squeeze and glow.
	if screen := g.manifest.Handle(scene.RoleTvScreen); screen != nil {
		v := g.tvSet.Animator().Visual()
		screen.Visual.ScaleY = v.ScaleY
		screen.Visual.BaseColor = v.BaseColor
		screen.Visual.EmissiveIntensity = v.Emissive
	}

	if buf := g.tvSet.Screen(); buf.TakeDirty() {
		g.screenTex.Upload(buf.Image())
	}
}

// updateLighting rebuilds the frame's light set from the room state.
func (g *Game) updateLighting() {
	if g.lampOn {
		g.renderer.SetSun(lighting.SunDirection(35, 55), daySunColor, dayAmbient)
	} else {
		g.renderer.SetSun(lighting.SunDirection(35, 55), nightSunColor, nightAmbient)
	}

	g.lights.Clear()
	if g.lampOn {
		if lamp := g.manifest.Handle(scene.RoleLamp); lamp != nil {
			c := lamp.Bounds.Min.Add(lamp.Bounds.Max).Scale(0.5)
			g.lights.AddLight(lighting.PointLight{
				Position:  [3]float32{c.X, c.Y, c.Z},
				Color:     lampColor,
				Range:     6,
				Intensity: 1.2,
			})
		}
	}
	if screen := g.manifest.Handle(scene.RoleTvScreen); screen != nil {
		if glow := screen.Visual.EmissiveIntensity; glow > 0.01 {
			c := screen.Bounds.Min.Add(screen.Bounds.Max).Scale(0.5)
			g.lights.AddLight(lighting.PointLight{
				Position:  [3]float32{c.X, c.Y, c.Z},
				Color:     screenGlow,
				Range:     4,
				Intensity: glow * 0.8,
			})
		}
	}
	g.renderer.SetLights(g.lights)
}

func (g *Game) render() {
	w, h := g.renderer.Size()
	aspect := float32(w) / float32(h)
	g.renderer.SetCamera(g.cam.ViewMatrix(), math.Perspective(cameraFOV, aspect, cameraNear, cameraFar))
	g.updateLighting()

	if g.autogain.Enabled() {
		restore := g.sceneFBO.BindWithViewport()
		g.renderer.Begin()
		g.drawScene()
		restore()

		g.renderer.Begin()
		g.post.Draw(g.sceneFBO.ColorTexture(), g.autogain.Gain(), float32(g.elapsed))
	} else {
		g.renderer.Begin()
		g.drawScene()
	}
	g.renderer.End()

	g.drawChrome()
}

// drawScene draws the room geometry. Also used as the night vision
// sampler's render callback, so it must not touch framebuffer bindings.
func (g *Game) drawScene() {
	for i := range g.objects {
		obj := &g.objects[i]
		if scene.IsInteractive(*obj) {
			continue // interactive objects draw from their handle below
		}
		box := picking.NewAABB(
			obj.Bounds[0], obj.Bounds[1], obj.Bounds[2],
			obj.Bounds[3], obj.Bounds[4], obj.Bounds[5],
		)
		g.renderer.DrawBox(box, math.Vec3{}, 1, scene.BaseColor(*obj), [3]float32{}, 0)
	}

	for _, hd := range g.manifest.Interactive() {
		if hd.Role == scene.RoleTvScreen {
			continue
		}
		g.renderer.DrawBox(hd.Bounds, hd.Visual.Offset, hd.Visual.ScaleY,
			hd.Visual.BaseColor, hd.Visual.Emissive, hd.Visual.EmissiveIntensity)
	}

	if screen := g.manifest.Handle(scene.RoleTvScreen); screen != nil && screen.Quad != nil {
		tint := screen.Visual.BaseColor
		if g.tvSet.Detached() {
			// Overlay owns playback; the in-world panel goes dark.
			tint = [3]float32{0, 0, 0}
		}
		g.renderer.DrawScreen(*screen.Quad, g.screenTex.ID(), tint, screen.Visual.EmissiveIntensity)
	}
}

// drawChrome draws the 2D layer: overlay player, loader progress, tooltip.
func (g *Game) drawChrome() {
	w, h := g.renderer.Size()

	g.ui.Begin()

	if g.overlay.IsOpen() {
		g.ui.DrawRect(0, 0, float32(w), float32(h), ui2d.ColorScrim)
		g.drawOverlayFrame(w, h)

		help := "LEFT/RIGHT switch   SPACE pause   ESC close"
		tw, _ := g.ui.MeasureText(help, 1)
		g.ui.DrawText((float32(w)-tw)/2, float32(h)-40, help, 1, ui2d.ColorTextDim)
	}

	if !g.tracker.Idle() {
		g.drawProgress(w, h)
	}

	g.tooltip.Draw(g.ui, float32(g.mouseX), float32(g.mouseY))

	g.ui.End()
}

// drawOverlayFrame letterboxes the overlay's current frame into the window.
func (g *Game) drawOverlayFrame(w, h int) {
	frame := g.overlay.Frame()
	if frame == nil {
		msg := "LOADING"
		tw, th := g.ui.MeasureText(msg, 2)
		g.ui.DrawText((float32(w)-tw)/2, (float32(h)-th)/2, msg, 2, ui2d.ColorTextDim)
		return
	}

	g.uploadOverlayFrame(frame)

	fw := float32(frame.Bounds().Dx())
	fh := float32(frame.Bounds().Dy())
	scale := float32(w) / fw
	if s := float32(h) / fh; s < scale {
		scale = s
	}
	dw, dh := fw*scale, fh*scale
	g.ui.DrawFrameTexture((float32(w)-dw)/2, (float32(h)-dh)/2, dw, dh, g.overlayTex.ID())
}

// uploadOverlayFrame keeps the overlay texture sized to the clip.
func (g *Game) uploadOverlayFrame(frame *image.RGBA) {
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	if g.overlayTex != nil {
		if tw, th := g.overlayTex.Size(); tw != fw || th != fh {
			g.overlayTex.Delete()
			g.overlayTex = nil
		}
	}
	if g.overlayTex == nil {
		g.overlayTex = texture.New(fw, fh)
	}
	g.overlayTex.Upload(frame)
}

// drawProgress draws the asset loading bar along the bottom edge.
func (g *Game) drawProgress(w, h int) {
	const barH = float32(6)
	frac := float32(g.tracker.Fraction())
	y := float32(h) - barH
	g.ui.DrawRect(0, y, float32(w), barH, ui2d.ColorPanelBg)
	g.ui.DrawRect(0, y, float32(w)*frac, barH, ui2d.ColorAccent)
}

// Close releases every subsystem. Safe on a partially constructed game.
func (g *Game) Close() {
	logger.Info("closing room")

	if g.post != nil {
		g.post.Destroy()
	}
	if g.sampler != nil {
		g.sampler.Destroy()
	}
	if g.sceneFBO != nil {
		g.sceneFBO.Destroy()
	}
	if g.overlayTex != nil {
		g.overlayTex.Delete()
	}
	if g.screenTex != nil {
		g.screenTex.Delete()
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.ui != nil {
		g.ui.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
