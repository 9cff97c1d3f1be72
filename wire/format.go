// Package wire encodes and decodes the flip-graph solver's on-disk file
// format: a 13-field whitespace-separated header followed by one bitmask
// per line. Two of the header's last three fields mean different things
// depending on whether the file is being read (split, minmuls, maxsize)
// or written (achieved, minmuls, plus) — a deliberate quirk of the
// original format that this package preserves rather than "fixes", so
// that files written by this engine stay byte-for-byte compatible with
// anything that already reads the wire format.
package wire

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jakobmoosbauer/symmetric-flips/engine"
)

// Decomposition is the full contents of a wire file: the scalar header
// fields plus the flattened term array. Not every field is meaningful on
// every path — Split/MaxSize are populated by Load and ignored by Save;
// Achieved/Plus are populated for Save and ignored by Load.
type Decomposition struct {
	Nomuls      int
	Flips       uint64
	Rcode       int
	Target      int
	FlipLimit   uint64
	PlusLimit   int64
	Termination int
	Seed        uint32
	Symmetry    int
	MaxPlus     int

	// Read-schema-only (header field 11, field 13):
	Split   int
	MaxSize int

	// Shared (header field 12):
	MinMuls int

	// Write-schema-only (header field 11, field 13):
	Achieved int
	Plus     uint64

	Terms []uint64
}

// Load reads a wire file using the input schema: ...split minmuls maxsize.
func Load(path string) (*Decomposition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wire: Load: %w", err)
	}
	defer f.Close()

	d := &Decomposition{}
	r := bufio.NewReaderSize(f, 1<<20)
	_, err = fmt.Fscan(r,
		&d.Nomuls, &d.Flips, &d.Rcode, &d.Target, &d.FlipLimit, &d.PlusLimit,
		&d.Termination, &d.Seed, &d.Symmetry, &d.MaxPlus,
		&d.Split, &d.MinMuls, &d.MaxSize,
	)
	if err != nil {
		return nil, fmt.Errorf("wire: Load: %s: header: %w", path, err)
	}
	if d.Nomuls <= 0 || d.Nomuls%3 != 0 {
		return nil, fmt.Errorf("wire: Load: %s: nomuls %d is not a positive multiple of 3", path, d.Nomuls)
	}

	d.Terms = make([]uint64, d.Nomuls)
	for i := range d.Terms {
		if _, err := fmt.Fscan(r, &d.Terms[i]); err != nil {
			return nil, fmt.Errorf("wire: Load: %s: term %d: %w", path, i, err)
		}
	}
	return d, nil
}

// Save writes a wire file using the output schema:
// ...achieved minmuls plus. It is used both for the final result (path
// is the same file the run was loaded from) and, with rcode forced to 2,
// for mid-run checkpoints.
func Save(path string, d *Decomposition) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wire: Save: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	_, err = fmt.Fprintf(w, "%d %d %d %d %d %d %d %d %d %d %d %d %d\n",
		d.Nomuls, d.Flips, d.Rcode, d.Target, d.FlipLimit, d.PlusLimit,
		d.Termination, d.Seed, d.Symmetry, d.MaxPlus,
		d.Achieved, d.MinMuls, d.Plus,
	)
	if err != nil {
		return fmt.Errorf("wire: Save: %s: header: %w", path, err)
	}
	for _, v := range d.Terms {
		if _, err := fmt.Fprintf(w, "%d\n", v); err != nil {
			return fmt.Errorf("wire: Save: %s: term: %w", path, err)
		}
	}
	return w.Flush()
}

// ToParams extracts the engine parameter set carried by a loaded
// Decomposition's header.
func (d *Decomposition) ToParams() engine.Params {
	return engine.Params{
		Target:      d.Target,
		FlipLimit:   d.FlipLimit,
		PlusLimit:   d.PlusLimit,
		Termination: d.Termination,
		Seed:        d.Seed,
		Symmetry:    d.Symmetry,
		MaxPlus:     d.MaxPlus,
		Split:       d.Split,
		MaxSize:     d.MaxSize,
	}
}

// FromState builds a Decomposition in the output schema from a live or
// finished run, selecting the best-ever decomposition when it strictly
// improves on the current one, per the format's "best if minmuls <
// achieved, else current" rule. checkpoint forces rcode to 2 and always
// uses the current (not best) decomposition, per the checkpoint file's
// documented semantics.
func FromState(s *engine.State, checkpoint bool) *Decomposition {
	p := s.Params()
	d := &Decomposition{
		Nomuls:      len(s.Terms()),
		Flips:       s.Flips(),
		Rcode:       int(s.Rcode()),
		Target:      p.Target,
		FlipLimit:   p.FlipLimit,
		PlusLimit:   p.PlusLimit,
		Termination: p.Termination,
		Seed:        p.Seed,
		Symmetry:    p.Symmetry,
		MaxPlus:     p.MaxPlus,
		Achieved:    s.Achieved(),
		MinMuls:     s.Minmuls(),
		Plus:        s.Plus(),
	}
	if checkpoint {
		d.Rcode = 2
		d.Terms = append([]uint64(nil), s.Terms()...)
		return d
	}
	if s.Minmuls() < s.Achieved() {
		d.Terms = append([]uint64(nil), s.Best()...)
	} else {
		d.Terms = append([]uint64(nil), s.Terms()...)
	}
	return d
}
