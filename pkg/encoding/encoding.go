package encoding

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrEncoding = errors.New("encoding error")
var ErrIO = errors.New("input/output error")
var ErrFailedCheck = errors.New("object field check failed")

// WriterDecoder is written with raw report bytes and decoded into a typed
// object. Decoders are pure; the same bytes always decode the same way.
type WriterDecoder interface {
	io.Writer
	Decode() (any, error)
	DecodeFrom(r io.Reader) (any, error)
	FileType() string
}

type JSONWriterDecoder[T any] struct {
	bytes.Buffer
	checkFunc func(*T) error
	fileType  string
}

func NewJSONWriterDecoder[T any](fileType string, check func(*T) error) *JSONWriterDecoder[T] {
	return &JSONWriterDecoder[T]{
		checkFunc: check,
		fileType:  fileType,
	}
}

func (d *JSONWriterDecoder[T]) Decode() (any, error) {
	obj := new(T)
	err := json.NewDecoder(d).Decode(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return obj, d.checkFunc(obj)
}

func (d *JSONWriterDecoder[T]) DecodeFrom(r io.Reader) (any, error) {
	_, err := d.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return d.Decode()
}

func (d *JSONWriterDecoder[T]) FileType() string {
	return d.fileType
}

// LinesDecoder decodes newline-delimited JSON records into *[]T. Lines that
// are not valid JSON objects are skipped, not fatal; scanners that emit
// progress text on the same stream stay parseable.
type LinesDecoder[T any] struct {
	bytes.Buffer
	checkFunc func(*[]T) error
	fileType  string
}

func NewLinesDecoder[T any](fileType string, check func(*[]T) error) *LinesDecoder[T] {
	return &LinesDecoder[T]{
		checkFunc: check,
		fileType:  fileType,
	}
}

func (d *LinesDecoder[T]) Decode() (any, error) {
	records := new([]T)
	scanner := bufio.NewScanner(d)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		*records = append(*records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return records, d.checkFunc(records)
}

func (d *LinesDecoder[T]) DecodeFrom(r io.Reader) (any, error) {
	_, err := d.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return d.Decode()
}

func (d *LinesDecoder[T]) FileType() string {
	return d.fileType
}
