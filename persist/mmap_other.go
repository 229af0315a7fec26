//go:build !unix

package persist

import "os"

// openMapped is the portable fallback on platforms without
// golang.org/x/sys/unix.Mmap: a plain read of the whole file into a
// private buffer. It gives up demand paging for files larger than RAM, but
// keeps persist usable on every GOOS the rest of the module supports.
func openMapped(path string) (*mappedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &mappedFile{data: data}, nil
}
