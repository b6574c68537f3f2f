package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short line"}, wrap("short line", 40))
	assert.Equal(t, []string{"aaa bbb", "ccc"}, wrap("aaa bbb ccc", 7))
	assert.Equal(t, []string{"abcde", "fgh"}, wrap("abcdefgh", 5))
}

func TestBox(t *testing.T) {
	out := captureOutput(t)

	Box("Score", "Score: 7/10\n\nGlass is recyclable.", 40)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.Contains(t, lines[1], "Score")
	assert.Contains(t, lines[3], "Score: 7/10")
	assert.True(t, strings.HasPrefix(lines[6], "└"))
}

func TestTable(t *testing.T) {
	out := captureOutput(t)

	Table([]string{"ID", "KIND"}, [][]string{{"1", "esg_analysis"}})

	assert.Contains(t, out.String(), "ID  KIND")
	assert.Contains(t, out.String(), "--  ----")
	assert.Contains(t, out.String(), "1   esg_analysis")
}
