// Package pager owns the on-disk page cache: a bounded array of
// page-sized buffers backed by a single file descriptor. It knows
// nothing about B+-trees or rows — it serves pages by number, pages
// them in on first access, and flushes whatever was ever materialized
// on close.
package pager

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// PageSize is the fixed size, in bytes, of every page in the file.
	PageSize = 4096

	// TableMaxPages bounds how many pages a single file may grow to.
	// There is no free list, so allocation is append-only and this is
	// the hard ceiling on database size.
	TableMaxPages = 100
)

// ErrCorruptFile is returned by Open when the file's length is not a
// whole multiple of PageSize.
var ErrCorruptFile = errors.New("pager: file length is not a multiple of page size")

// ErrTableFull is returned by AllocatePage once the file has reached
// TableMaxPages.
var ErrTableFull = errors.New("pager: table full")

// ErrOutOfBoundsPage is returned by GetPage for a page number beyond
// TableMaxPages. Reaching this is always a caller bug.
var ErrOutOfBoundsPage = errors.New("pager: page number out of bounds")

// Page is a single in-memory buffer mirroring one page of the file.
// It is owned exclusively by the Pager that produced it; callers
// borrow the pointer for the duration of one operation.
type Page struct {
	Data    [PageSize]byte
	PageNum uint32
}

// Pager maps a file path to an array of page buffers, materializing
// pages on demand and flushing every one of them back on Close.
type Pager struct {
	file     *os.File
	pages    [TableMaxPages]*Page
	numPages uint32
}

// Open opens path for read/write, creating it if absent. A file whose
// length is not a whole multiple of PageSize is rejected as corrupt.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pager: stat %s: %w", path, err)
	}

	fileLen := fi.Size()
	if fileLen%PageSize != 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCorruptFile, path, fileLen)
	}

	return &Pager{
		file:     f,
		numPages: uint32(fileLen / PageSize),
	}, nil
}

// NumPages reports how many pages the file currently spans.
func (p *Pager) NumPages() uint32 { return p.numPages }

// GetPage returns the buffer for pageNum, reading it from disk on
// first access. Reading past the current end of file is not an error:
// the tail of the buffer stays zeroed. It is fatal (an error here
// should terminate the caller) to ask for a page beyond TableMaxPages.
func (p *Pager) GetPage(pageNum uint32) (*Page, error) {
	if pageNum >= TableMaxPages {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrOutOfBoundsPage, pageNum, TableMaxPages)
	}

	if p.pages[pageNum] == nil {
		pg := &Page{PageNum: pageNum}

		// A page beyond the file's on-disk extent reads back as all
		// zeros: Seek past EOF is legal, and ReadFull on an empty tail
		// simply reports EOF, which is the expected "short read".
		if _, err := p.file.Seek(int64(pageNum)*PageSize, io.SeekStart); err != nil {
			return nil, fmt.Errorf("pager: seek page %d: %w", pageNum, err)
		}
		if _, err := io.ReadFull(p.file, pg.Data[:]); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("pager: read page %d: %w", pageNum, err)
		}
		p.pages[pageNum] = pg

		if pageNum >= p.numPages {
			p.numPages = pageNum + 1
		}
	}

	return p.pages[pageNum], nil
}

// AllocatePage hands out the next page number. The page itself is
// materialized lazily by the next GetPage call for that number;
// callers that need to write to it immediately must still call
// GetPage. There is no free list: allocation only ever grows the file.
func (p *Pager) AllocatePage() (uint32, error) {
	if p.numPages >= TableMaxPages {
		return 0, ErrTableFull
	}
	return p.numPages, nil
}

// FlushPage writes the cached buffer for pageNum back to its offset in
// the file. Flushing a page that was never materialized is a no-op.
func (p *Pager) FlushPage(pageNum uint32) error {
	pg := p.pages[pageNum]
	if pg == nil {
		return nil
	}
	if _, err := p.file.Seek(int64(pageNum)*PageSize, io.SeekStart); err != nil {
		return fmt.Errorf("pager: seek page %d: %w", pageNum, err)
	}
	if _, err := p.file.Write(pg.Data[:]); err != nil {
		return fmt.Errorf("pager: write page %d: %w", pageNum, err)
	}
	return nil
}

// Close flushes every materialized page, in page-number order, then
// releases the file descriptor.
func (p *Pager) Close() error {
	for i := uint32(0); i < p.numPages; i++ {
		if err := p.FlushPage(i); err != nil {
			_ = p.file.Close()
			return err
		}
	}
	return p.file.Close()
}
