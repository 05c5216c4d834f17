package assembler

import (
	"context"
	"os"
	"path/filepath"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	Sink interface {
		WriteObject(ctx context.Context, obj []byte) error
	}

	// FileSink writes the object through a temporary file renamed into place,
	// so Name is either the complete object or untouched.
	FileSink struct {
		Name string
		Perm os.FileMode
	}
)

func (s FileSink) WriteObject(ctx context.Context, obj []byte) (err error) {
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}

	f, err := os.CreateTemp(filepath.Dir(s.Name), "."+filepath.Base(s.Name)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}

	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	_, err = f.Write(obj)
	if e := f.Close(); err == nil && e != nil {
		err = e
	}
	if err != nil {
		return errors.Wrap(err, "write temp file")
	}

	err = os.Chmod(f.Name(), perm)
	if err != nil {
		return errors.Wrap(err, "chmod")
	}

	err = os.Rename(f.Name(), s.Name)
	if err != nil {
		return errors.Wrap(err, "rename")
	}

	tlog.SpanFromContext(ctx).Printw("object written", "name", s.Name, "size", len(obj))

	return nil
}
