// Package chunker splits document text into overlapping fixed-size
// chunks suitable for embedding.
package chunker

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// DefaultMinChunkLength is the minimum chunk length before boundary
// snapping is considered. Below this, a chunk is never shortened.
const DefaultMinChunkLength = 100

// Splitter splits text into overlapping chunks. Where possible a chunk
// ends at a sentence boundary, then a word boundary, before falling
// back to a hard cut, so that chunks do not break mid-word.
type Splitter struct {
	chunkSize int
	overlap   int
	minLength int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithMinChunkLength sets the minimum length below which a chunk is
// never shortened for boundary snapping.
func WithMinChunkLength(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.minLength = n
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		minLength: DefaultMinChunkLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay strictly below chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	if s.minLength > s.chunkSize {
		s.minLength = s.chunkSize
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split divides text into ordered overlapping chunks. Empty text
// produces no chunks; text shorter than the chunk size produces a
// single chunk equal to the whole text.
//
// Split is a pure function of its inputs: identical text always yields
// identical chunks.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	textLen := len(text)
	if textLen <= s.chunkSize {
		return []string{text}
	}

	step := s.chunkSize - s.overlap
	chunks := make([]string, 0, textLen/step+1)

	start := 0
	for start < textLen {
		end := start + s.chunkSize
		if end >= textLen {
			chunks = append(chunks, text[start:])
			break
		}

		end = s.snap(text, start, end)
		chunks = append(chunks, text[start:end])

		next := end - s.overlap
		if next <= start {
			// Boundary snapping shortened the chunk to at most the
			// overlap; force forward progress.
			next = start + step
		}
		start = next
	}

	return chunks
}

// snap moves the chunk end back to the nearest sentence boundary, then
// word boundary, within the window. The chunk is never shortened below
// the configured minimum length.
func (s *Splitter) snap(text string, start, end int) int {
	limit := start + s.minLength

	for i := end - 1; i > limit; i-- {
		c := text[i-1]
		if c == '\n' {
			return i
		}
		if (c == '.' || c == '!' || c == '?') && isSpace(text[i]) {
			return i
		}
	}

	for i := end - 1; i > limit; i-- {
		if isSpace(text[i]) {
			return i + 1
		}
	}

	// Hard cut
	return end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
