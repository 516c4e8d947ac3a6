package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope_Success(t *testing.T) {
	t.Parallel()

	jobs := []Job{
		{ID: "li-1", Site: "linkedin", Title: "Go Developer", Company: "Acme"},
		{ID: "in-2", Site: "indeed", Title: "Backend Engineer", Company: "Globex"},
	}
	env := NewEnvelope([]string{"Go Developer"}, "Remote", jobs)

	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, 2, env.TotalJobs)
	assert.Len(t, env.Jobs, env.TotalJobs)
	assert.Equal(t, "Remote", env.Location)
}

func TestNewEnvelope_EmptyIsError(t *testing.T) {
	t.Parallel()

	env := NewEnvelope([]string{"Cobol Wizard"}, "Remote", nil)

	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, 0, env.TotalJobs)
	assert.NotNil(t, env.Jobs)
	assert.Empty(t, env.Jobs)
}

func TestNewEnvelope_NilKeywords(t *testing.T) {
	t.Parallel()

	env := NewEnvelope(nil, "Remote", nil)

	assert.Equal(t, StatusError, env.Status)
	assert.NotNil(t, env.Keywords)
}

func TestEnvelope_JSONContract(t *testing.T) {
	t.Parallel()

	env := NewEnvelope(nil, "Remote", nil)
	data, err := json.Marshal(env)
	require.NoError(t, err)

	// Empty slices serialize as [], never null.
	assert.JSONEq(t, `{
		"status": "error",
		"total_jobs": 0,
		"keywords": [],
		"location": "Remote",
		"jobs": []
	}`, string(data))
}
