package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reefdive/apiserver/internal/catalog"
	"github.com/reefdive/apiserver/internal/db/dbtest"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
courses:
  - id: open-water
    title: PADI Open Water Diver
    description: Your first full certification.
    duration: 3-4 days
    dives: 4
    price: "₹32,000"
    level: Beginner
    certification: PADI Open Water Diver
    category: certification
  - id: night-diver
    title: Night Diver
    dives: 3
    price: Contact for pricing
    category: specialty
    available: false
`

func TestParse(t *testing.T) {
	courses, err := catalog.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, "open-water", courses[0].ID)
	assert.Equal(t, "₹32,000", courses[0].Price)
	assert.Equal(t, types.CategoryCertification, courses[0].Category)
	assert.True(t, courses[0].Available)

	assert.Equal(t, "Contact for pricing", courses[1].Price)
	assert.False(t, courses[1].Available)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "catalog is empty"},
		{"missing id", "courses:\n  - title: X\n    category: beginner\n", "id is required"},
		{"missing title", "courses:\n  - id: x\n    category: beginner\n", "title is required"},
		{"bad category", "courses:\n  - id: x\n    title: X\n    category: expert\n", "invalid category"},
		{"duplicate", "courses:\n  - id: x\n    title: X\n    category: beginner\n  - id: x\n    title: Y\n    category: beginner\n", "duplicate id"},
		{"unknown field", "courses:\n  - id: x\n    title: X\n    category: beginner\n    colour: blue\n", "decode catalog"},
		{"negative dives", "courses:\n  - id: x\n    title: X\n    category: beginner\n    dives: -1\n", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse(strings.NewReader(tt.doc))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repo := store.NewCourseRepository(dbtest.Open(t))

	path := filepath.Join(t.TempDir(), "courses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	courses, err := catalog.LoadFile(path)
	require.NoError(t, err)

	n, err := catalog.Seed(ctx, repo, courses)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	openWater, err := repo.Get(ctx, "open-water")
	require.NoError(t, err)
	assert.Equal(t, "₹32,000", openWater.Price)

	night, err := repo.Get(ctx, "night-diver")
	require.NoError(t, err)
	assert.False(t, night.Available)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
