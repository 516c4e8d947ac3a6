package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedID_BoardIDWins(t *testing.T) {
	t.Parallel()

	j := Job{ID: "li-4012345678", Site: "linkedin", Title: "Go Developer"}
	assert.Equal(t, "li-4012345678", j.DerivedID())
}

func TestDerivedID_FallbackIsStable(t *testing.T) {
	t.Parallel()

	a := Job{Site: "indeed", Title: "Go Developer", Company: "Acme", Location: "Remote"}
	b := Job{Site: "indeed", Title: "Go Developer", Company: "Acme", Location: "Remote"}

	require.NotEmpty(t, a.DerivedID())
	assert.Equal(t, a.DerivedID(), b.DerivedID())
}

func TestDerivedID_FoldsCaseAndWidth(t *testing.T) {
	t.Parallel()

	a := Job{Site: "indeed", Title: "Go Developer", Company: "Acme", Location: "Remote"}
	b := Job{Site: "indeed", Title: "GO DEVELOPER", Company: " acme ", Location: "remote"}
	// Fullwidth forms normalize to ASCII under NFKC.
	c := Job{Site: "indeed", Title: "Ｇｏ Ｄｅｖｅｌｏｐｅｒ", Company: "Acme", Location: "Remote"}

	assert.Equal(t, a.DerivedID(), b.DerivedID())
	assert.Equal(t, a.DerivedID(), c.DerivedID())
}

func TestDerivedID_DistinguishesListings(t *testing.T) {
	t.Parallel()

	a := Job{Site: "indeed", Title: "Go Developer", Company: "Acme", Location: "Remote"}
	b := Job{Site: "linkedin", Title: "Go Developer", Company: "Acme", Location: "Remote"}

	assert.NotEqual(t, a.DerivedID(), b.DerivedID())
}

func TestSanitize_ClearsNonFiniteFloats(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	inf := math.Inf(1)
	j := Job{MinAmount: &nan, MaxAmount: &inf}

	j.Sanitize()

	assert.Nil(t, j.MinAmount)
	assert.Nil(t, j.MaxAmount)

	// The sanitized job must marshal cleanly.
	_, err := json.Marshal(j)
	require.NoError(t, err)
}

func TestSanitize_KeepsFiniteValues(t *testing.T) {
	t.Parallel()

	minAmt, maxAmt := 90000.0, 120000.0
	desc := "Build services in Go."
	j := Job{MinAmount: &minAmt, MaxAmount: &maxAmt, Description: &desc}

	j.Sanitize()

	require.NotNil(t, j.MinAmount)
	require.NotNil(t, j.MaxAmount)
	assert.Equal(t, 90000.0, *j.MinAmount)
	assert.Equal(t, 120000.0, *j.MaxAmount)
	assert.Equal(t, desc, *j.Description)
}

func TestSanitize_DropsBlankDescription(t *testing.T) {
	t.Parallel()

	blank := "   "
	j := Job{Description: &blank}
	j.Sanitize()
	assert.Nil(t, j.Description)
}

func TestJob_JSONShape(t *testing.T) {
	t.Parallel()

	j := Job{
		ID:       "in-abc123",
		Site:     "indeed",
		JobURL:   "https://www.indeed.com/viewjob?jk=abc123",
		Title:    "Go Developer",
		Company:  "Acme",
		Location: "Remote",
	}

	data, err := json.Marshal(j)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "in-abc123", m["id"])
	assert.Equal(t, "indeed", m["site"])
	// Optional fields must be absent, not null.
	assert.NotContains(t, m, "date_posted")
	assert.NotContains(t, m, "min_amount")
	assert.NotContains(t, m, "is_remote")
}
