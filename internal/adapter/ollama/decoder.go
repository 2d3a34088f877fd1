package ollama

import (
	"bytes"
	"encoding/json"
	"log"
)

// ChunkDecoder reassembles newline-delimited JSON records from a byte
// stream whose chunk boundaries are arbitrary (mid-line and mid-rune
// splits included). It holds only the trailing incomplete fragment
// between feeds.
type ChunkDecoder struct {
	buf []byte
}

// NewChunkDecoder creates an empty decoder.
func NewChunkDecoder() *ChunkDecoder {
	return &ChunkDecoder{}
}

// Feed appends raw bytes and returns all records completed by them.
// Undecodable lines are logged and skipped; they never abort the stream.
func (d *ChunkDecoder) Feed(p []byte) []ChatChunk {
	d.buf = append(d.buf, p...)

	var chunks []ChatChunk
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]
		if chunk, ok := decodeLine(line); ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Flush decodes a trailing record that arrived without a final
// newline. Call once at end of stream.
func (d *ChunkDecoder) Flush() (ChatChunk, bool) {
	line := d.buf
	d.buf = nil
	return decodeLine(line)
}

func decodeLine(line []byte) (ChatChunk, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return ChatChunk{}, false
	}
	var chunk ChatChunk
	if err := json.Unmarshal(line, &chunk); err != nil {
		log.Printf("WARN: skipping undecodable stream line: %v", err)
		return ChatChunk{}, false
	}
	return chunk, true
}
