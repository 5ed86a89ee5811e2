package plink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const gcsScheme = "gs://"

// source is one member of the trio, opened either from local disk or from
// Google Storage.
type source struct {
	path string
	io.ReadCloser

	// at is nil for compressed sources, which cannot be read at an offset.
	at io.ReaderAt

	// size is -1 when unknown.
	size int64
}

// opener opens trio members. A storage client is created the first time a
// gs:// path is seen and kept until close.
type opener struct {
	ctx    context.Context
	client *storage.Client
}

func newOpener(ctx context.Context) *opener {
	return &opener{ctx: ctx}
}

func (o *opener) close() error {
	if o.client == nil {
		return nil
	}
	err := o.client.Close()
	o.client = nil
	return err
}

// openBinary opens path for both sequential and random-access reads.
func (o *opener) openBinary(path string) (*source, error) {
	if strings.HasPrefix(path, gcsScheme) {
		return o.openGCS(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &FileNotFoundError{File: path, Err: pfx.Err(err)}
	}

	src := &source{path: path, ReadCloser: f, at: f, size: -1}
	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
		src.size = fi.Size()
	}

	return src, nil
}

// openText opens a text member of the trio. If path itself does not exist,
// compressed siblings (path.gz, path.zst, path.xz) are tried in turn. The
// returned source is sequential only.
func (o *opener) openText(path string) (*source, error) {
	candidates := []string{path}
	if CompressionFor(path) == CompressionDisabled {
		for _, suffix := range textSuffixes {
			candidates = append(candidates, path+suffix)
		}
	}

	var firstErr error
	for _, candidate := range candidates {
		src, err := o.openBinary(candidate)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		rc, err := decompressor(CompressionFor(candidate), src.ReadCloser)
		if err != nil {
			src.Close()
			return nil, &MalformedFileError{File: candidate, Reason: "cannot decompress", Err: err}
		}
		if rc != src.ReadCloser {
			src.ReadCloser = rc
			src.at = nil
			src.size = -1
		}

		return src, nil
	}

	return nil, firstErr
}

func (o *opener) openGCS(path string) (*source, error) {
	bucket, object, err := splitGCSPath(path)
	if err != nil {
		return nil, &FileNotFoundError{File: path, Err: err}
	}

	if o.client == nil {
		client, err := storage.NewClient(o.ctx)
		if err != nil {
			return nil, &FileNotFoundError{File: path, Err: pfx.Err(err)}
		}
		o.client = client
	}

	handle := o.client.Bucket(bucket).Object(object)
	attrs, err := handle.Attrs(o.ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, &FileNotFoundError{File: path, Err: err}
		}
		return nil, &FileNotFoundError{File: path, Err: pfx.Err(err)}
	}

	r, err := handle.NewReader(o.ctx)
	if err != nil {
		return nil, &FileNotFoundError{File: path, Err: pfx.Err(err)}
	}

	return &source{
		path:       path,
		ReadCloser: r,
		at:         &gcsReaderAt{ctx: o.ctx, handle: handle},
		size:       attrs.Size,
	}, nil
}

func splitGCSPath(path string) (bucket, object string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(path, gcsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%s is not of the form gs://bucket/object", path)
	}

	return parts[0], parts[1], nil
}

// gcsReaderAt issues one ranged read per call.
type gcsReaderAt struct {
	ctx    context.Context
	handle *storage.ObjectHandle
}

func (g *gcsReaderAt) ReadAt(p []byte, off int64) (int, error) {
	r, err := g.handle.NewRangeReader(g.ctx, off, int64(len(p)))
	if err != nil {
		return 0, pfx.Err(err)
	}
	defer r.Close()

	n, err := io.ReadFull(r, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}
