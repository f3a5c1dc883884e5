//go:build linux
// +build linux

// File: shm/segment_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux segment backing: anonymous memfd mapped shared. The fd survives
// in /proc/<pid>/fd and can be handed to peer processes over a unix
// socket, which is how a multi-process deployment shares one pool.

package shm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func createSegment(name string, size int) (*Segment, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("shm: memfd_create %q: %w", name, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("shm: ftruncate %q to %d: %w", name, size, err)
	}
	mem, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("shm: mmap %q: %w", name, err)
	}
	return &Segment{
		name: name,
		mem:  mem,
		fd:   fd,
		closer: func() error {
			merr := unix.Munmap(mem)
			cerr := unix.Close(fd)
			if merr != nil {
				return merr
			}
			return cerr
		},
	}, nil
}
