package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSpecExample(t *testing.T) {
	c := BuildCatalog([]Record{
		mustRecord(t, `{"name":{"str":"Baseball Bat"},"volume":"3 L"}`),
		mustRecord(t, `{"name":{"str":""}}`),
		mustRecord(t, `{"volume":"1 L"}`),
	})
	require.Equal(t, 1, c.Len())

	st := NewBrowseState(SearchSubstring)
	st.Query = "bat"
	fv := Frame(c, st)
	assert.Equal(t, []int{0}, fv.Matches.Indices)
	assert.Nil(t, fv.Detail)

	st.Selected = 0
	fv = Frame(c, st)
	require.NotNil(t, fv.Detail)
	assert.Equal(t, "Baseball Bat", fv.Detail.Title)
	assert.Empty(t, fv.Detail.Description)
	vol, ok := fv.Detail.Field("volume")
	require.True(t, ok)
	assert.Equal(t, "3 L", vol.Text)

	st.Query = "xyz"
	fv = Frame(c, st)
	assert.Zero(t, fv.Matches.Len())
	// selection is independent of the filter
	assert.NotNil(t, fv.Detail)
}

func TestFrameInvalidSelection(t *testing.T) {
	c := BuildCatalog([]Record{named("a")})
	for _, sel := range []int{-1, 1, 42} {
		fv := Frame(c, &BrowseState{Selected: sel})
		assert.Nil(t, fv.Detail, sel)
		assert.Equal(t, 1, fv.Matches.Len())
	}
}

func TestFrameNilState(t *testing.T) {
	fv := Frame(BuildCatalog([]Record{named("a"), named("b")}), nil)
	assert.Equal(t, 2, fv.Matches.Len())
	assert.Nil(t, fv.Detail)
}
