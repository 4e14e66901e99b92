package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joefazee/findcountry/internal/cache"
	"github.com/joefazee/findcountry/internal/sanitizer"
)

func TestContainer(t *testing.T) {
	c := NewContainer(nil, nil, sanitizer.NewHTMLStripper(), nil, cache.NewMemoryCache[string]())

	assert.NotNil(t, c.Logger, "a null logger is used when none is given")
	assert.Nil(t, c.GetRepository("missing"))
	assert.Nil(t, c.GetService("missing"))

	c.RegisterRepository("repo", "repository value")
	c.RegisterService("svc", 42)

	assert.Equal(t, "repository value", c.GetRepository("repo"))
	assert.Equal(t, 42, c.GetService("svc"))
}
