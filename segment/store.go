package segment

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ErrNotFound is returned when no segment has the requested id.
var ErrNotFound = errors.New("segment not found")

// Store keeps segments as one JSON array in a file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by path. The file is created on first Append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// List returns all segments. A missing file is an empty store.
func (s *Store) List() ([]Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the segment with the given id.
func (s *Store) Get(id int) (Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	segs, err := s.load()
	if err != nil {
		return Segment{}, err
	}
	for _, seg := range segs {
		if seg.ID == id {
			return seg, nil
		}
	}
	return Segment{}, errors.Wrapf(ErrNotFound, "id %d", id)
}

// Append assigns the next id to seg, which is one larger than the largest
// stored id, and appends it.
func (s *Store) Append(seg Segment) (Segment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	segs, err := s.load()
	if err != nil {
		return Segment{}, err
	}
	seg.ID = 0
	for _, sg := range segs {
		if sg.ID >= seg.ID {
			seg.ID = sg.ID + 1
		}
	}
	if err := s.write(append(segs, seg)); err != nil {
		return Segment{}, err
	}
	return seg, nil
}

// Delete removes the segment with the given id.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	segs, err := s.load()
	if err != nil {
		return err
	}
	for i, seg := range segs {
		if seg.ID == id {
			return s.write(append(segs[:i], segs[i+1:]...))
		}
	}
	return errors.Wrapf(ErrNotFound, "id %d", id)
}

func (s *Store) load() ([]Segment, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var segs []Segment
	if err := json.Unmarshal(b, &segs); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", s.path)
	}
	return segs, nil
}

func (s *Store) write(segs []Segment) (err error) {
	if segs == nil {
		segs = []Segment{}
	}
	b, err := json.MarshalIndent(segs, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			multierr.AppendInto(&err, os.Remove(f.Name()))
		}
	}()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return multierr.Append(errors.WithStack(err), f.Close())
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(f.Name(), s.path))
}
