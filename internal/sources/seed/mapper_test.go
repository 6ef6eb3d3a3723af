package seed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapperMapResources(t *testing.T) {
	fixed := time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)
	n := 0
	m := &Mapper{
		now: func() time.Time { return fixed },
		newID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}

	got := m.MapResources(File{Resources: []Entry{
		{URL: "go.dev/doc", Title: "Go docs"},
		{URL: "   ", Title: "blank"},
		{URL: "https://kubernetes.io"},
		{URL: "https://go.dev/doc", Title: "duplicate"},
	}})

	require.Len(t, got, 2)

	assert.Equal(t, "https://go.dev/doc", got[0].URL)
	assert.Equal(t, "Go docs", got[0].Title)
	assert.Equal(t, "id-1", got[0].ID)
	assert.Equal(t, fixed, got[0].CreatedAt)

	assert.Equal(t, "https://kubernetes.io", got[1].URL)
	assert.Equal(t, "https://kubernetes.io", got[1].Title, "blank title falls back to the url")
	assert.Equal(t, "id-2", got[1].ID)
	assert.Equal(t, fixed.Add(time.Microsecond), got[1].CreatedAt)
}

func TestMapperCreationTimesFollowFileOrder(t *testing.T) {
	f := File{Resources: []Entry{
		{URL: "zeta.example"},
		{URL: "alpha.example"},
		{URL: ""},
		{URL: "mid.example"},
	}}

	got := NewMapper().MapResources(f)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].CreatedAt.After(got[i-1].CreatedAt),
			"%s must be created after %s", got[i].URL, got[i-1].URL)
	}
}

func TestMapperFreshIDs(t *testing.T) {
	f := File{Resources: []Entry{{URL: "terraform.io"}}}

	first := NewMapper().MapResources(f)
	second := NewMapper().MapResources(f)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID, "an id is never handed out twice")
}

func TestMapperEmptyFile(t *testing.T) {
	got := NewMapper().MapResources(File{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
