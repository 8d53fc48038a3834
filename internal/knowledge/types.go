package knowledge

// Chunk is one retrieved unit of text from an entity partition, ranked by
// vector similarity to the query.
type Chunk struct {
	ID         string            // Document chunk identifier
	Content    string            // Chunk text
	Metadata   map[string]string // Origin metadata (file_name, page, ...)
	Similarity float32           // Cosine similarity to the query (0-1)
}

// OriginLabel returns the chunk's origin-file label, or the literal
// "unknown" when the metadata carries none. An empty label that is
// present stays empty; only absence triggers the fallback.
func (c Chunk) OriginLabel() string {
	if label, ok := c.Metadata["file_name"]; ok {
		return label
	}
	return "unknown"
}
