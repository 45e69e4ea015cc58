package sorter

import (
	"time"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/bufferpool"
	"github.com/tuannm99/novasort/internal/metrics"
	"github.com/tuannm99/novasort/internal/record"
	"github.com/tuannm99/novasort/internal/storage"
)

const DefaultScratchRoot = "tmp/fragments"

type Options struct {
	// Capacity is M, the number of records the buffer holds.
	Capacity  int
	Delimiter byte

	ScratchRoot string
	KeepScratch bool

	Codec            storage.Codec
	IOLimitBytesPerS int

	Cleanup util.RetryPolicy
	Metrics *metrics.Registry

	// Now stamps the scratch directory name.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Capacity:    bufferpool.DefaultCapacity,
		Delimiter:   record.DefaultDelimiter,
		ScratchRoot: DefaultScratchRoot,
		Codec:       storage.CodecNone,
		Cleanup:     util.DefaultRetryPolicy,
		Now:         time.Now,
	}
}

func (o *Options) fillDefaults() {
	d := DefaultOptions()
	if o.Delimiter == 0 {
		o.Delimiter = d.Delimiter
	}
	if o.ScratchRoot == "" {
		o.ScratchRoot = d.ScratchRoot
	}
	if o.Codec == 0 {
		o.Codec = d.Codec
	}
	if o.Cleanup.Attempts == 0 {
		o.Cleanup = d.Cleanup
	}
	if o.Now == nil {
		o.Now = d.Now
	}
}
