package transcriber

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/audio"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/metrics"
)

// Chunked wraps an Adapter so payloads above the upload ceiling are split
// into sequential chunks and their transcripts joined with a single space.
// Payloads at or under the ceiling pass straight through.
type Chunked struct {
	adapter    Adapter
	chunkBytes int
	metrics    *metrics.Metrics
}

// NewChunked builds the chunking wrapper. m may be nil to skip recording.
func NewChunked(adapter Adapter, chunkBytes int, m *metrics.Metrics) *Chunked {
	if chunkBytes <= 0 {
		chunkBytes = audio.DefaultChunkSize
	}
	return &Chunked{adapter: adapter, chunkBytes: chunkBytes, metrics: m}
}

func (c *Chunked) Transcribe(ctx context.Context, audioData []byte, filename string) (string, error) {
	if len(audioData) <= c.chunkBytes {
		c.recordChunks(1)
		return c.adapter.Transcribe(ctx, audioData, filename)
	}

	chunks, err := audio.Chunk(audioData, c.chunkBytes)
	if err != nil {
		return "", fmt.Errorf("split payload: %w", err)
	}
	c.recordChunks(len(chunks))

	log.Printf("transcriber: splitting %d bytes into %d chunks", len(audioData), len(chunks))

	texts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := c.adapter.Transcribe(ctx, chunk, chunkFilename(filename, i))
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		texts = append(texts, strings.TrimSpace(text))
	}

	return strings.Join(texts, " "), nil
}

func (c *Chunked) recordChunks(n int) {
	if c.metrics != nil {
		c.metrics.RecordChunks(n)
	}
}

func chunkFilename(filename string, index int) string {
	if filename == "" {
		filename = "audio.mp3"
	}
	return fmt.Sprintf("part%d-%s", index+1, filename)
}
