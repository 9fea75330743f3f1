package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCyclesNormalizesFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/nodejs.json", r.URL.Path)
		fmt.Fprint(w, `[
			{"cycle":"22","latest":"22.3.0","eol":"2027-04-30","support":"2026-10-30","lts":"2024-10-29"},
			{"cycle":"21","latest":"21.7.3","eol":true,"support":false,"lts":false},
			{"cycle":20,"latest":"20.14.0","eol":"2026-04-30","support":"2025-10-30","lts":true}
		]`)
	}))
	defer server.Close()

	client := NewEndOfLifeClient()
	client.BaseURL = server.URL

	cycles, err := client.GetCycles(context.Background(), "nodejs")
	require.NoError(t, err)
	require.Len(t, cycles, 3)

	// LTS published as a promotion date
	assert.Equal(t, "22", cycles[0].Cycle)
	assert.True(t, cycles[0].LTS)
	assert.Equal(t, "2024-10-29", cycles[0].LTSDate)
	assert.Equal(t, "2027-04-30", cycles[0].EOL)

	// boolean eol/support flattened: true -> "true", false -> ""
	assert.Equal(t, "true", cycles[1].EOL)
	assert.Equal(t, "", cycles[1].Support)
	assert.False(t, cycles[1].LTS)

	// numeric cycle field coerced to its string form
	assert.Equal(t, "20", cycles[2].Cycle)
	assert.True(t, cycles[2].LTS)
	assert.Equal(t, "", cycles[2].LTSDate)
}

func TestGetCyclesEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewEndOfLifeClient()
	client.BaseURL = server.URL

	_, err := client.GetCycles(context.Background(), "unknown-product")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCyclesMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error":"nope"}`)
	}))
	defer server.Close()

	client := NewEndOfLifeClient()
	client.BaseURL = server.URL

	_, err := client.GetCycles(context.Background(), "python")
	assert.Error(t, err)
}

func TestListProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/all.json", r.URL.Path)
		fmt.Fprint(w, `["python","nodejs","django"]`)
	}))
	defer server.Close()

	client := NewEndOfLifeClient()
	client.BaseURL = server.URL

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "nodejs", "django"}, products)
}
