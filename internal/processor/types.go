package processor

import (
	"log/slog"

	"fiximg/internal/addr"
	"fiximg/internal/codec"
	"fiximg/pkg/imgutil"
)

// Item is one directory entry captured when the run starts.
type Item struct {
	Path string
	Kind imgutil.Kind

	// err is set when the entry could not be resolved while listing.
	err error
}

// Outcome is the result of processing one Item. Err is nil on success.
type Outcome struct {
	Path         string
	Kind         imgutil.Kind
	Digest       addr.Digest
	Destination  string
	InputBytes   int64
	OutputBytes  int64
	MetadataTags int
	Err          error
}

// OK reports whether the item was placed successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Class buckets the outcome's error.
func (o Outcome) Class() ErrorClass {
	return Classify(o.Err)
}

// Report holds every Outcome of a run in completion order.
type Report struct {
	Outcomes []Outcome
}

// Failures returns the failed outcomes.
func (r Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Succeeded counts successful outcomes.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Collisions counts outcomes rejected because their destination existed.
func (r Report) Collisions() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Class() == ClassCollision {
			n++
		}
	}
	return n
}

// BytesSaved sums input minus output size over successful outcomes.
func (r Report) BytesSaved() int64 {
	var saved int64
	for _, o := range r.Outcomes {
		if o.OK() {
			saved += o.InputBytes - o.OutputBytes
		}
	}
	return saved
}

// Codecs supplies the optimizer for each image kind.
type Codecs struct {
	PNG  codec.Optimizer
	JPEG codec.Optimizer
}

// NewCodecs returns the production optimizers; jpegoptim is the resolved
// tool path.
func NewCodecs(jpegoptim string) Codecs {
	return Codecs{
		PNG:  codec.NewPNGOptimizer(),
		JPEG: codec.NewJPEGOptimizer(jpegoptim),
	}
}

// Options controls a Run.
type Options struct {
	Codecs Codecs
	Logger *slog.Logger
}

// ProgressUpdate carries counter deltas to a progress view.
type ProgressUpdate struct {
	TotalDelta      int
	ProcessedDelta  int
	ErrorDelta      int
	CollisionDelta  int
	BytesSavedDelta int64
}
