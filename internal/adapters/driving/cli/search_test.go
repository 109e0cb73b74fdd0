package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonworks/kbsearch/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasTopKFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "what is a variable"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "course-101")
	assert.Contains(t, buf.String(), "0.91")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "loops"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"DocumentID"`)
	assert.Contains(t, buf.String(), `"Similarity"`)
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService = &mockSearcher{results: []domain.SearchResult{}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nothing matches this"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := searchService
	searchService = nil
	defer func() {
		searchService = oldService
	}()

	err := runSearch(searchCmd, []string{"test"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))
	assert.Equal(t, "0123456789...", snippet("0123456789abcdef", 10))
}
