package topics

// Renderer turns raw topic content into terminal output. ext is the topic
// file's extension, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer prints topics as written.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
