// Package processor runs one optimization pass over a directory snapshot:
// list, classify, optimize, hash, place, and collect an Outcome per item.
package processor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"fiximg/internal/addr"
	"fiximg/internal/codec"
	"fiximg/internal/config"
	"fiximg/internal/placement"
	"fiximg/pkg/imgutil"
)

// Run processes every entry of cfg.InputDir. The work list is fixed
// before any item starts. Items run concurrently on cfg.WorkerCount()
// workers and a failing item never stops its siblings. Only a directory
// that cannot be listed makes Run return an error.
//
// Outcomes are appended in completion order. If updates is non-nil it
// receives progress deltas; Run never closes it.
func Run(ctx context.Context, cfg *config.Config, opts Options, updates chan<- ProgressUpdate) (Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	items, err := Discover(cfg.InputDir, cfg.FoldExtensionCase, log)
	if err != nil {
		return Report{}, err
	}

	w := &worker{
		cfg:    cfg,
		codecs: opts.Codecs,
		placer: placement.New(cfg.Mode(), cfg.DestDir()),
		log:    log,
	}

	if updates != nil {
		updates <- ProgressUpdate{TotalDelta: len(items)}
	}

	results := make(chan Outcome)
	report := Report{Outcomes: make([]Outcome, 0, len(items))}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for o := range results {
			report.Outcomes = append(report.Outcomes, o)
			if !o.OK() {
				log.Error("item failed", "path", o.Path, "class", string(o.Class()), "error", o.Err)
			}
			if updates != nil {
				updates <- progressFor(o)
			}
		}
	}()

	var g errgroup.Group
	g.SetLimit(cfg.WorkerCount())
	for _, item := range items {
		g.Go(func() error {
			results <- w.process(ctx, item)
			return nil
		})
	}

	// Tasks report failures through their Outcome, so Wait cannot fail.
	_ = g.Wait()
	close(results)
	<-collectorDone

	return report, nil
}

func progressFor(o Outcome) ProgressUpdate {
	u := ProgressUpdate{ProcessedDelta: 1}
	switch o.Class() {
	case ClassNone:
		u.BytesSavedDelta = o.InputBytes - o.OutputBytes
	case ClassCollision:
		u.ErrorDelta = 1
		u.CollisionDelta = 1
	default:
		u.ErrorDelta = 1
	}
	return u
}

type worker struct {
	cfg    *config.Config
	codecs Codecs
	placer *placement.Placer
	log    *slog.Logger
}

// process runs the full pipeline for one item and turns any failure into
// the Outcome's error.
func (w *worker) process(ctx context.Context, item Item) Outcome {
	o := Outcome{Path: item.Path, Kind: item.Kind}
	w.log.Info("optimizing", "path", item.Path, "kind", item.Kind.String())

	if item.err != nil {
		o.Err = item.err
		return o
	}
	if err := ctx.Err(); err != nil {
		o.Err = err
		return o
	}

	src, err := os.ReadFile(item.Path)
	if err != nil {
		o.Err = &IOError{Op: "read", Path: item.Path, Err: err}
		return o
	}
	o.InputBytes = int64(len(src))

	payload := src
	if w.cfg.StripMetadata {
		payload, o.MetadataTags, err = codec.StripMetadata(item.Kind, payload)
		if err != nil {
			o.Err = err
			return o
		}
	}

	payload, err = w.optimize(ctx, item.Kind, payload)
	if err != nil {
		o.Err = err
		return o
	}

	o.Digest = addr.Of(payload)
	o.OutputBytes = int64(len(payload))
	if w.placer.Mode() == placement.ModeRename {
		// The source file itself is moved; its size does not change.
		o.OutputBytes = o.InputBytes
	}

	filename := addr.Filename(o.Digest, imgutil.Ext(item.Path))
	if w.cfg.DryRun {
		o.Destination = filepath.Join(w.cfg.DestDir(), filename)
		return o
	}

	dest, err := w.placer.Place(placement.Request{
		Payload:    payload,
		Filename:   filename,
		SourcePath: item.Path,
	})
	o.Destination = dest
	if err != nil {
		var collision *placement.CollisionError
		if errors.As(err, &collision) {
			o.Err = err
		} else {
			ioErr := &IOError{Op: "write", Path: dest, Err: err}
			if w.placer.Mode() == placement.ModeRename {
				// The source is what moves; dest stays on the Outcome.
				ioErr.Op, ioErr.Path = "rename", item.Path
			}
			o.Err = ioErr
		}
	}
	return o
}

func (w *worker) optimize(ctx context.Context, kind imgutil.Kind, src []byte) ([]byte, error) {
	var opt codec.Optimizer
	switch kind {
	case imgutil.KindPNG:
		opt = w.codecs.PNG
	case imgutil.KindJPEG:
		opt = w.codecs.JPEG
	default:
		return src, nil
	}

	if opt == nil {
		return nil, &codec.Error{Format: kind.String(), Err: errors.New("no optimizer configured")}
	}

	out, err := opt.Optimize(ctx, src)
	if err != nil {
		var codecErr *codec.Error
		if !errors.As(err, &codecErr) {
			err = &codec.Error{Format: kind.String(), Err: err}
		}
		return nil, err
	}
	return out, nil
}
