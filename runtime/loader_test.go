package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	loader := NewCensoredLoader()

	data, err := loader.LoadAll("censored")
	req.NoError(err)

	// One language per dictionary file
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)

	// Words from every file are merged
	req.Contains(data.Words, "badger")
	req.Contains(data.Words, "escroc")
	req.NotEmpty(data.Words)
}

func TestCensoredLoader_Missing_Directory(t *testing.T) {
	req := require.New(t)
	loader := NewCensoredLoader()

	_, err := loader.LoadAll("no-such-dir")
	req.Error(err)
}
