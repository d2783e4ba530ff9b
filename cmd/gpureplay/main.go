// SPDX-License-Identifier: Unlicense OR MIT

// Command gpureplay replays a TOML scene through the OpenGL driver in
// hidden GLFW windows. With -contexts greater than 1 the scene is drawn
// from several share group contexts, which exercises the per-context
// framebuffer and vertex array caches.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli/v2"

	"gioui.org/gpudriver/driver"
	"gioui.org/gpudriver/gl"
	"gioui.org/gpudriver/gl/glcore"
	"gioui.org/gpudriver/opengl"
)

func init() {
	// Required by the OpenGL threading model.
	runtime.LockOSThread()
}

var (
	samplesFlag = &cli.IntFlag{
		Name:  "samples",
		Usage: "multisample count of render targets, overriding the scene",
	}
	framesFlag = &cli.IntFlag{
		Name:  "frames",
		Usage: "number of times the command list is replayed per context",
		Value: 1,
	}
	contextsFlag = &cli.IntFlag{
		Name:  "contexts",
		Usage: "number of GL contexts to replay in",
		Value: 1,
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level (debug, info, warn, error)",
		Value: "info",
	}
)

func main() {
	app := &cli.App{
		Name:      "gpureplay",
		Usage:     "replay a scene through the OpenGL rendering driver",
		ArgsUsage: "<scene.toml>",
		Flags:     []cli.Flag{samplesFlag, framesFlag, contextsFlag, verbosityFlag},
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected a single scene file")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(ctx.String(verbosityFlag.Name))); err != nil {
		return fmt.Errorf("invalid verbosity: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	driver.SetLogger(logger)

	sc, err := loadScene(ctx.Args().First())
	if err != nil {
		return err
	}
	if ctx.IsSet(samplesFlag.Name) {
		sc.Samples = ctx.Int(samplesFlag.Name)
	}
	n := ctx.Int(contextsFlag.Name)
	if n < 1 {
		return fmt.Errorf("invalid context count %d", n)
	}

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	windows := make(map[gl.Context]*glfw.Window)
	var order []*glfw.Window
	var share *glfw.Window
	for i := 0; i < n; i++ {
		w, err := glfw.CreateWindow(sc.Width, sc.Height, "gpureplay", nil, share)
		if err != nil {
			return err
		}
		defer w.Destroy()
		if share == nil {
			share = w
		}
		windows[contextOf(w)] = w
		order = append(order, w)
	}
	share.MakeContextCurrent()

	funcs, err := glcore.Init()
	if err != nil {
		return err
	}
	d, err := opengl.New(funcs, opengl.Config{
		Samples: sc.Samples,
		CurrentContext: func() gl.Context {
			return contextOf(glfw.GetCurrentContext())
		},
		MakeCurrent: func(c gl.Context) {
			if w := windows[c]; w != nil {
				w.MakeContextCurrent()
			} else {
				glfw.DetachCurrentContext()
			}
		},
	})
	if err != nil {
		return err
	}
	defer d.Release()

	list, err := sc.Build(d)
	if err != nil {
		return err
	}
	frames := ctx.Int(framesFlag.Name)
	for f := 0; f < frames; f++ {
		for i, w := range order {
			w.MakeContextCurrent()
			d.UpdateCommandList(list)
			d.DrawCommandList()
			w.SwapBuffers()
			logger.Debug("frame replayed", "frame", f, "context", i, "batches", d.BatchCount())
		}
	}
	share.MakeContextCurrent()

	s := d.Stats()
	logger.Info("replay done",
		"frames", frames,
		"contexts", n,
		"commands", len(list),
		"textures", s.Textures,
		"geometries", s.Geometries,
		"render_buffers", s.RenderBuffers,
		"framebuffers", s.Framebuffers,
		"vertex_arrays", s.VertexArrays,
		"resolves", s.Resolves,
	)
	return nil
}

func contextOf(w *glfw.Window) gl.Context {
	return gl.Context(uintptr(unsafe.Pointer(w)))
}
