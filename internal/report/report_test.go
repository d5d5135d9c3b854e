package report

import (
	"bytes"
	"testing"

	"github.com/dannyswat/vdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	oldNode := vdom.Element("div", vdom.Attrs("class", "a", "title", "t"),
		vdom.Element("span", nil, "hello world"),
		vdom.Element("ul", nil, vdom.Element("li", nil, "A"), vdom.Element("li", nil, "B")),
	)
	newNode := vdom.Element("div", vdom.Attrs("class", "b"),
		vdom.Element("span", nil, "hello again"),
		vdom.Element("ul", nil, vdom.Element("li", nil, "A")),
		vdom.Element("p", nil, "new"),
	)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, oldNode, vdom.Diff(oldNode, newNode), Options{}))

	want := `@0 div
  PROPS class: "a" -> "b", title: "t" removed
  INSERT <p> (2 nodes)
@2 div/span[0]/#text[0]
  TEXT hello [-world-]{+again+}
@3 div/ul[1]
  REMOVE child 1 <li> (2 nodes)
4 operations at 3 positions
`
	assert.Equal(t, want, buf.String())
}

func TestWriteColor(t *testing.T) {
	oldNode := vdom.Element("p", nil, "a")
	newNode := vdom.Element("em", nil, "a")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, oldNode, vdom.Diff(oldNode, newNode), Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "<em> (2 nodes)")
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, vdom.Element("p", nil), vdom.PatchSet{}, Options{}))
	assert.Equal(t, "0 operations at 0 positions\n", buf.String())
}
