package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"p8sfx/capture"
	"p8sfx/cart"
	"p8sfx/emu"
	"p8sfx/emu/log"
	"p8sfx/hw/hwdefs"
)

func checkIndex(index int) {
	if index < 0 || index >= hwdefs.StopIndex {
		fatalf("invalid sfx index %d (valid: 0-%d)", index, hwdefs.StopIndex-1)
	}
}

func sfxFilename(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("sfx_%d.wav", index))
}

// renderSFX renders a single SFX of c in a new session.
func renderSFX(c *cart.Cart, cfg emu.EngineConfig, index, limit int) ([]int8, error) {
	cfg.RunOnStart = true
	sess := emu.NewSession(cfg)
	sess.Load(c)
	return sess.Render(index, limit)
}

// renderAll renders every non-empty SFX of c to dir, concurrently. It returns
// the number of written files.
func renderAll(c *cart.Cart, cfg emu.EngineConfig, dir string, limit int) (int, error) {
	if err := os.MkdirAll(dir, emu.DefaultFileMode); err != nil {
		return 0, err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	var count atomic.Int32
	for i, slot := range c.SFX {
		if slot == nil || slot.Empty() {
			continue
		}
		if i == hwdefs.StopIndex {
			log.ModEmu.WarnZ("sfx can't be triggered, skipped").Int("sfx", i).End()
			continue
		}
		g.Go(func() error {
			samples, err := renderSFX(c, cfg, i, limit)
			if err != nil {
				return err
			}
			if err := capture.WriteFile(sfxFilename(dir, i), samples); err != nil {
				return fmt.Errorf("sfx %d: %w", i, err)
			}
			count.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(count.Load()), err
}

func renderMain(args Render, cfg emu.Config) {
	c, err := cart.Open(args.CartPath)
	checkf(err, "failed to load cartridge")

	limit := int(args.Seconds * hwdefs.SampleRate)
	if limit <= 0 {
		fatalf("invalid duration %v", args.Seconds)
	}

	if args.All {
		dir := cfg.Capture.Dir
		if args.Out != "" {
			dir = args.Out
		}
		n, err := renderAll(c, cfg.Engine, dir, limit)
		checkf(err, "failed to render sfx")
		fmt.Printf("rendered %d sfx to %s\n", n, dir)
		return
	}

	checkIndex(args.SFX)
	out := args.Out
	if out == "" {
		out = sfxFilename(cfg.Capture.Dir, args.SFX)
	}

	samples, err := renderSFX(c, cfg.Engine, args.SFX, limit)
	checkf(err, "failed to render sfx %d", args.SFX)
	checkf(capture.WriteFile(out, samples), "failed to write %s", out)
	fmt.Printf("wrote %d samples to %s\n", len(samples), out)
}

func playMain(args Play, cfg emu.Config) {
	checkIndex(args.SFX)
	if args.Backend != "" {
		cfg.Audio.Backend = args.Backend
		checkf(cfg.Check(), "invalid audio backend")
	}

	sess := emu.NewSession(cfg.Engine)
	checkf(sess.LoadCart(args.CartPath), "failed to load cartridge")
	sess.Run(true)
	log.AddContext(sess.Chip)

	out, err := emu.OpenAudio(cfg.Audio)
	checkf(err, "failed to open audio output")
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	player := emu.NewPlayer(sess, out, cfg.Audio)
	err = player.Play(ctx, args.SFX)
	if errors.Is(err, context.Canceled) {
		return
	}
	checkf(err, "failed to play sfx %d", args.SFX)
}

func sfxInfosMain(args SFXInfos) {
	c, err := cart.Open(args.CartPath)
	checkf(err, "failed to load cartridge")
	printInfos(os.Stdout, c, args.Notes)
}

func compareMain(args Compare) {
	if strings.Contains(args.Ref, "%d") || strings.Contains(args.Out, "%d") {
		n, err := compareSet(os.Stdout, args.Ref, args.Out)
		checkf(err, "comparison failed")
		fmt.Printf("compared %d file pairs\n", n)
		return
	}

	rep, err := capture.CompareFiles(args.Ref, args.Out)
	checkf(err, "comparison failed")
	if args.Frames {
		for i, d := range rep.Diffs {
			fmt.Printf("frame %4d: %.6f\n", i, d)
		}
	}
	fmt.Println(rep)
}

// compareSet compares the files of SFX 0 to 63 named after the refPattern
// and outPattern patterns, where %d is replaced by the SFX index. Indices for
// which both files are missing are skipped.
func compareSet(w io.Writer, refPattern, outPattern string) (int, error) {
	exists := func(path string) (bool, error) {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	}

	n := 0
	for i := range hwdefs.NumSlots {
		ref, out := fmt.Sprintf(refPattern, i), fmt.Sprintf(outPattern, i)
		refOK, err := exists(ref)
		if err != nil {
			return n, err
		}
		outOK, err := exists(out)
		if err != nil {
			return n, err
		}

		switch {
		case !refOK && !outOK:
			continue
		case !refOK:
			log.ModEmu.WarnZ("missing reference file").String("path", ref).End()
			continue
		case !outOK:
			log.ModEmu.WarnZ("missing output file").String("path", out).End()
			continue
		}

		rep, err := capture.CompareFiles(ref, out)
		if err != nil {
			return n, fmt.Errorf("sfx %d: %w", i, err)
		}
		fmt.Fprintf(w, "sfx %2d: %s\n", i, rep)
		n++
	}
	return n, nil
}

func stateMain(args State, cfg emu.Config) {
	checkIndex(args.SFX)

	cfg.Engine.RunOnStart = true
	sess := emu.NewSession(cfg.Engine)
	checkf(sess.LoadCart(args.CartPath), "failed to load cartridge")
	log.AddContext(sess.Chip)
	checkf(sess.Trigger(0, args.SFX, 0), "failed to trigger sfx")
	sess.Advance(args.Ticks)

	buf, err := sess.State().MarshalJSON()
	checkf(err, "failed to encode state")
	buf = append(buf, '\n')

	if args.Out == "" {
		os.Stdout.Write(buf)
		return
	}
	checkf(os.WriteFile(args.Out, buf, 0644), "failed to write state")
}
