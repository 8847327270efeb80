package chat

// Chunk splits text into ordered slices of at most maxLength characters.
// Joining the result reconstructs text exactly. Empty text yields a single
// empty chunk so the bot still replies once.
func Chunk(text string, maxLength int) []string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/maxLength+1)
	for start := 0; start < len(runes); start += maxLength {
		end := start + maxLength
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
