package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	in := `
features:
  - key: math
    name: Mathematics
    price: 10000
    pricing_type: per_student
    menu_links:
      - name: Lessons
        href: /math/lessons
  - name: Term Reports
    price: 2500
    pricing_type: per_term
    requires_date_range: true
`
	drafts, err := loadCatalog(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "math", drafts[0].Key)
	assert.Equal(t, int64(10000), drafts[0].Price)
	require.Len(t, drafts[0].MenuLinks, 1)
	assert.Equal(t, "/math/lessons", drafts[0].MenuLinks[0].Href)
	assert.True(t, drafts[1].RequiresDateRange)
}

func TestLoadCatalog_SinNombre(t *testing.T) {
	_, err := loadCatalog(strings.NewReader("features:\n  - key: x\n    pricing_type: free\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "features[0]")
}

func TestLoadCatalog_Vacio(t *testing.T) {
	_, err := loadCatalog(strings.NewReader("features: []\n"))
	assert.Error(t, err)
}

func TestRootCmd_Subcomandos(t *testing.T) {
	cmd := rootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"seed-features", "mark-overdue", "bulk-assign", "create-user"} {
		assert.True(t, names[n], n)
	}
}
