package renderer

import "sync"

// Buffers larger than this are dropped instead of pooled so one wide canvas
// does not pin memory.
const maxRetainWriteBuffer = 8192

// flushThreshold leaves room for one more UTF-8 rune in a 256-byte buffer.
const flushThreshold = 250

// writeBufferPool manages byte buffers for writeTo
var writeBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, 256)
		return &buf
	},
}

// acquireWriteBuffer gets a write buffer from the pool
func acquireWriteBuffer() []byte {
	bufPtr := writeBufferPool.Get().(*[]byte)
	return (*bufPtr)[:0]
}

// releaseWriteBuffer returns a write buffer to the pool
func releaseWriteBuffer(buf []byte) {
	if buf == nil || cap(buf) > maxRetainWriteBuffer {
		return
	}
	writeBufferPool.Put(&buf)
}
