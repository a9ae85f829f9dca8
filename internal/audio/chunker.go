package audio

import "fmt"

// OpenAI rejects uploads above 25 MB; 24 MiB chunks leave headroom for
// multipart framing.
const (
	MaxUploadSize    = 25 * 1024 * 1024
	DefaultChunkSize = 24 * 1024 * 1024
)

// Chunk splits payload into sequential sub-slices of at most maxBytes each.
// Concatenating the result reproduces payload byte-for-byte. An empty payload
// yields a single empty chunk so callers never have to special-case "no
// chunks". The returned slices share payload's backing array.
func Chunk(payload []byte, maxBytes int) ([][]byte, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxBytes)
	}

	if len(payload) <= maxBytes {
		return [][]byte{payload}, nil
	}

	total := (len(payload) + maxBytes - 1) / maxBytes
	chunks := make([][]byte, 0, total)
	for start := 0; start < len(payload); start += maxBytes {
		end := start + maxBytes
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[start:end])
	}

	return chunks, nil
}

// ChunkCount returns the number of chunks Chunk would produce without
// materializing them.
func ChunkCount(payloadLen, maxBytes int) int {
	if maxBytes <= 0 {
		return 0
	}
	if payloadLen <= maxBytes {
		return 1
	}
	return (payloadLen + maxBytes - 1) / maxBytes
}
