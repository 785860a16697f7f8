package logsetup

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
)

// dirPerm is used for directories created for log files and archives.
const dirPerm = 0o700

// RollingFile is an io.WriteCloser that rolls its file over according to a
// RotationPolicy. It is safe for concurrent use.
type RollingFile struct {
	mu     sync.Mutex
	path   string
	perm   os.FileMode
	policy RotationPolicy
	file   *os.File
	size   uint64
	closed bool
}

// OpenRollingFile opens path for appending, creating it and its parent
// directories if needed.
func OpenRollingFile(path string, perm os.FileMode, policy RotationPolicy) (*RollingFile, error) {
	if path == "" {
		return nil, ErrFilePathNotSet
	}
	if perm == 0 {
		perm = 0o600
	}
	r := &RollingFile{path: path, perm: perm, policy: policy}
	if err := r.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return r, nil
}

// Write writes p to the active file, rolling first when p would push the
// file past the size limit. A record is never split across files.
//
// When a roll fails the file is reopened for appending and p is still
// written; the roll error is returned with the full byte count.
func (r *RollingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, os.ErrClosed
	}
	if r.file == nil {
		// an earlier roll could not reopen the file
		if err := r.open(os.O_APPEND); err != nil {
			return 0, err
		}
	}

	var rollErr error
	if r.size > 0 && r.size+uint64(len(p)) > r.policy.SizeLimitBytes {
		rollErr = r.roll()
		if r.file == nil {
			return 0, rollErr
		}
	}

	n, err := r.file.Write(p)
	r.size += uint64(n)
	if err != nil {
		return n, errors.CombineErrors(err, rollErr)
	}
	return n, rollErr
}

// Close closes the active file. Further writes fail with os.ErrClosed.
func (r *RollingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Path returns the path of the active file.
func (r *RollingFile) Path() string {
	return r.path
}

func (r *RollingFile) open(mode int) error {
	if err := os.MkdirAll(filepath.Dir(r.path), dirPerm); err != nil {
		return errors.Wrapf(err, "creating log directory for %s", r.path)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|mode, r.perm)
	if err != nil {
		return errors.Wrapf(err, "opening log file %s", r.path)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "stat log file %s", r.path)
	}
	r.file = f
	r.size = uint64(info.Size())
	return nil
}

// roll shifts every archive up by one index, dropping the oldest, moves the
// active file to index 1 and starts a fresh file. If the archives cannot
// be shifted the active file is reopened for appending, so the sink keeps
// working past its limit. Caller holds r.mu.
func (r *RollingFile) roll() error {
	if err := r.file.Close(); err != nil {
		r.file = nil
		return errors.CombineErrors(
			errors.Wrap(err, "closing log file before roll"),
			r.open(os.O_APPEND))
	}
	r.file = nil

	if err := r.shift(); err != nil {
		return errors.CombineErrors(err, r.open(os.O_APPEND))
	}
	return r.open(os.O_TRUNC)
}

// shift makes room at archive index 1 and moves the closed active file
// there. With a window of 0 the active file is removed instead.
func (r *RollingFile) shift() error {
	count := int(r.policy.WindowCount)
	if count == 0 {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing rolled log file")
		}
		return nil
	}

	oldest := r.policy.ArchiveName(count)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing archive %s", oldest)
	}
	for i := count - 1; i >= 1; i-- {
		src := r.policy.ArchiveName(i)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := os.Rename(src, r.policy.ArchiveName(i+1)); err != nil {
			return errors.Wrapf(err, "shifting archive %s", src)
		}
	}

	first := r.policy.ArchiveName(1)
	if err := os.MkdirAll(filepath.Dir(first), dirPerm); err != nil {
		return errors.Wrapf(err, "creating archive directory for %s", first)
	}
	if err := os.Rename(r.path, first); err != nil {
		return errors.Wrapf(err, "archiving %s", r.path)
	}
	return nil
}
