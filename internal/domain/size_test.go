package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	cases := map[string]uint64{
		"":      0,
		"512":   512,
		"10k":   10000,
		"10KB":  10000,
		"1.5mb": 1500000,
		"2g":    2000000000,
		"7b":    7,
	}
	for input, want := range cases {
		got, err := ParseSize(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseSizeRejectsGarbage(t *testing.T) {
	_, err := ParseSize("lots")
	assert.Error(t, err)

	_, err = ParseSize("-4k")
	assert.Error(t, err)

	for _, input := range []string{"nan", "inf", "-inf", "infinity", "1e30", "2e7tb"} {
		size, err := ParseSize(input)
		assert.Error(t, err, input)
		assert.Zero(t, size, input)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "999B", FormatSize(999))
	assert.Equal(t, "1.5KB", FormatSize(1500))
	assert.Equal(t, "2.0MB", FormatSize(2000000))
}

func TestSortModeCycle(t *testing.T) {
	assert.Equal(t, SortByName, SortBySize.Next())
	assert.Equal(t, SortByCount, SortByName.Next())
	assert.Equal(t, SortBySize, SortByCount.Next())
	assert.Equal(t, SortBySize, ParseSortMode("bogus", SortBySize))
	assert.Equal(t, SortByCount, ParseSortMode("count", SortBySize))
}

func TestGroupReclaimable(t *testing.T) {
	group := DuplicateGroup{
		Key:     FileKey{Name: "a.bin", Size: 100},
		Members: []Member{{Path: "/x/a.bin"}, {Path: "/y/a.bin", Marked: true}, {Path: "/z/a.bin"}},
	}
	assert.Equal(t, uint64(200), group.Reclaimable())
	assert.Equal(t, 1, group.MarkedCount())
}
