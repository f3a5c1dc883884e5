// Package chunk
// Author: momentics <momentics@gmail.com>
//
// Chunk and ChunkHeader layout for hioload-shm.
// A chunk is a fixed region of segment memory holding one header and one
// payload instance. The header is a fixed 64-byte binary layout placed at
// the start of the region so it stays valid across process boundaries;
// it contains no Go pointers. Payload type identity is an xxhash of the
// Go type name.
package chunk
