//go:build unix

package persist

import (
	"os"

	"golang.org/x/sys/unix"
)

// openMapped memory-maps path read-only via golang.org/x/sys/unix.Mmap
//, letting the OS page the file in on demand instead of this
// process paying for a full read of levels larger than available RAM.
func openMapped(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		f.Close()
		return &mappedFile{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &mappedFile{
		data: data,
		closer: func() error {
			errUnmap := unix.Munmap(data)
			errClose := f.Close()
			if errUnmap != nil {
				return errUnmap
			}
			return errClose
		},
	}, nil
}
