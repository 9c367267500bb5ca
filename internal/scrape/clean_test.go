package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
)

func TestCleanDropsScripts(t *testing.T) {
	got, err := Clean("<script>alert(1)</script><p>Hello world</p>")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)
}

func TestCleanDropsChromeAndBlankLines(t *testing.T) {
	page := `<html><head><style>p{color:red}</style><title>Shop</title></head>
<body>
  <header><a href="/">Home</a></header>
  <nav><ul><li>Menu</li></ul></nav>
  <main>
    <h1>Widget</h1>

    <p>Price: $10</p>
  </main>
  <aside>Ads</aside>
  <footer>(c) 2024</footer>
</body></html>`

	got, err := Clean(page)
	require.NoError(t, err)
	assert.Equal(t, "Shop\nWidget\nPrice: $10", got)
}

func TestCleanJoinsInlineTextWithSpace(t *testing.T) {
	got, err := Clean("<p>Hello<b>world</b></p>")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)
}

func TestCleanHTMLKeepsMarkup(t *testing.T) {
	got, err := CleanHTML("<body><nav>x</nav><p>Keep <em>me</em></p></body>")
	require.NoError(t, err)
	assert.Contains(t, got, "<p>Keep <em>me</em></p>")
	assert.NotContains(t, got, "<nav>")
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/page"))
	assert.ErrorIs(t, ValidateURL("example.com"), apperr.ErrInvalidInput)
	assert.ErrorIs(t, ValidateURL("ftp://example.com"), apperr.ErrInvalidInput)
}
