package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 1.0, Jaccard("Go developer", "developer, GO"), 1e-9)
	assert.InDelta(t, 0.5, Jaccard("a b c", "b c d"), 1e-9)
	assert.Zero(t, Jaccard("", "anything"))
	assert.Zero(t, Jaccard("alpha", "beta"))
}

func TestBestParagraph(t *testing.T) {
	text := "first paragraph here\n\nsecond one about payments\nand systems\n\n\nthird"

	p, score := BestParagraph("payments systems", text)
	assert.Equal(t, "second one about payments and systems", p)
	assert.InDelta(t, 2.0/6.0, score, 1e-9)

	p, score = BestParagraph("nothing matches", text)
	assert.Empty(t, p)
	assert.Zero(t, score)
}
