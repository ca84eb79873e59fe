package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildAndIndex(t *testing.T) {
	p := Root.Child("a").Child("b").Index(3)
	assert.Equal(t, "/a/b/3", p.String())
}

func TestEscaping(t *testing.T) {
	p := Root.Child("a/b~c")
	assert.Equal(t, "/a~1b~0c", p.String())
	segs := p.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, "a/b~c", segs[0])
}

func TestSegmentsRoot(t *testing.T) {
	assert.Nil(t, Root.Segments())
}

func TestSegmentsMultiLevel(t *testing.T) {
	p := Root.Index(0).Child("name")
	assert.Equal(t, []string{"0", "name"}, p.Segments())
}
