package processor

import (
	"context"
	"errors"
	"io"
	"os"

	"xorbatch/pkg/xorkey"
)

// TransformOptions tunes TransformFile.
type TransformOptions struct {
	// ChunkSize is the read size; DefaultChunkSize when zero.
	ChunkSize int
	// OnProgress, if set, is called after every chunk with the bytes done
	// so far and the input size.
	OnProgress func(done, total int64)
}

// TransformFile XORs inPath with key into outPath, creating or truncating it.
// It returns the number of bytes written.
//
// On cancellation (ErrAborted) or any failure the partially written output is
// left on disk as-is.
func TransformFile(ctx context.Context, inPath, outPath string, key xorkey.Key, opts TransformOptions) (int64, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, newFileError(ErrInputOpen, "open", inPath, err)
	}
	defer in.Close()

	var size int64
	if info, statErr := in.Stat(); statErr == nil {
		size = info.Size()
	}

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, newFileError(ErrOutputOpen, "create", outPath, err)
	}

	buf, release := getBuffer(opts.ChunkSize)
	defer release()

	var onChunk func(int64)
	if opts.OnProgress != nil {
		onChunk = func(done int64) { opts.OnProgress(done, size) }
	}

	n, err := TransformStream(ctx, out, in, key, buf, onChunk)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = newFileError(ErrWrite, "close", outPath, closeErr)
	}
	if err != nil {
		var fe *FileError
		if errors.As(err, &fe) && fe.Path == "" {
			if fe.Op == "read" {
				fe.Path = inPath
			} else {
				fe.Path = outPath
			}
		}
		return n, err
	}
	return n, nil
}

// TransformStream copies src to dst through key, len(buf) bytes at a time.
// The key position follows the absolute stream offset, so the result does not
// depend on the chunk size and applying it twice restores the input.
//
// ctx is checked before every chunk; cancellation returns ErrAborted.
func TransformStream(ctx context.Context, dst io.Writer, src io.Reader, key xorkey.Key, buf []byte, onChunk func(done int64)) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, DefaultChunkSize)
	}

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return offset, ErrAborted
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			key.Apply(chunk, offset)

			written, writeErr := dst.Write(chunk)
			// Any count mismatch is a short write; writeErr is kept as the cause.
			if written != n {
				return offset + int64(written), newFileError(ErrShortWrite, "write", "", writeErr)
			}
			if writeErr != nil {
				return offset + int64(written), newFileError(ErrWrite, "write", "", writeErr)
			}

			offset += int64(n)
			if onChunk != nil {
				onChunk(offset)
			}
		}

		if readErr == io.EOF {
			return offset, nil
		}
		if readErr != nil {
			return offset, newFileError(ErrRead, "read", "", readErr)
		}
	}
}
