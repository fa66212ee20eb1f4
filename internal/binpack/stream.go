package binpack

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Writer writes fixed-size packs to a zstd-compressed stream.
type Writer struct {
	enc *zstd.Encoder
	buf []byte
	n   int
}

// NewWriter returns a Writer compressing onto w. Close must be called to
// flush the final frame.
func NewWriter(w io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("binpack: %w", err)
	}
	return &Writer{enc: enc, buf: make([]byte, 0, PolicyPackSize)}, nil
}

// WriteBoard appends one board pack.
func (w *Writer) WriteBoard(b *BoardPack) error {
	buf, _ := b.AppendBinary(w.buf[:0])
	return w.write(buf)
}

// WritePolicy appends one policy pack.
func (w *Writer) WritePolicy(p *PolicyPack) error {
	buf, _ := p.AppendBinary(w.buf[:0])
	return w.write(buf)
}

func (w *Writer) write(buf []byte) error {
	if _, err := w.enc.Write(buf); err != nil {
		return err
	}
	w.n++
	return nil
}

// Count returns the number of packs written.
func (w *Writer) Count() int { return w.n }

// Close flushes the stream. It does not close the underlying writer.
func (w *Writer) Close() error { return w.enc.Close() }

// Reader reads packs written by Writer. A stream holds a single pack kind;
// the caller decides which Read method to use.
type Reader struct {
	dec *zstd.Decoder
	buf []byte
}

func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("binpack: %w", err)
	}
	return &Reader{dec: dec, buf: make([]byte, PolicyPackSize)}, nil
}

// ReadBoard reads the next board pack. It returns io.EOF at the end of the
// stream and io.ErrUnexpectedEOF when the stream ends inside a record.
func (r *Reader) ReadBoard(b *BoardPack) error {
	buf := r.buf[:BoardPackSize]
	if err := r.fill(buf); err != nil {
		return err
	}
	return b.UnmarshalBinary(buf)
}

// ReadPolicy reads the next policy pack with the same end-of-stream rules
// as ReadBoard.
func (r *Reader) ReadPolicy(p *PolicyPack) error {
	buf := r.buf[:PolicyPackSize]
	if err := r.fill(buf); err != nil {
		return err
	}
	return p.UnmarshalBinary(buf)
}

func (r *Reader) fill(buf []byte) error {
	_, err := io.ReadFull(r.dec, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("binpack: %w", err)
	}
	return err
}

// Close releases the decoder.
func (r *Reader) Close() { r.dec.Close() }
