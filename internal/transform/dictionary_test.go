package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

func writeDictionaryFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"devices.json": `[
			{"id": 1, "name": "Apple iPhone", "device_type": {"id": 4}},
			{"id": 2, "name": "apple iphone", "device_type": {"id": 4}},
			{"id": 3, "name": "Samsung Galaxy", "device_type": {"id": 4}},
			{"id": 4, "name": "Apple iPhone", "device_type": {"id": 5}}
		]`,
		"product_categories.json": `[
			{"id": 10, "parent": 1},
			{"id": 11, "parent": 10}
		]`,
		"content_categories.json": `[
			{"id": 20, "parent": 2}
		]`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestStaticDictionaryLoad(t *testing.T) {
	dictionary, err := NewStaticDictionary(writeDictionaryFiles(t))
	require.NoError(t, err)

	devices, err := dictionary.Get(DeviceDict)
	require.NoError(t, err)

	// Brand indexes are dense and assigned in first-seen order of the
	// normalized name.
	assert.Equal(t, pipeline.Pair{4, 1}, devices[1])
	assert.Equal(t, pipeline.Pair{4, 1}, devices[2])
	assert.Equal(t, pipeline.Pair{4, 2}, devices[3])
	assert.Equal(t, pipeline.Pair{5, 1}, devices[4])

	products, err := dictionary.Get(ProductCategoryDict)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Pair{10, 1}, products[10])
	assert.Equal(t, pipeline.Pair{11, 10}, products[11])

	contents, err := dictionary.Get(ContentCategoryDict)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Pair{20, 2}, contents[20])
}

func TestStaticDictionaryUnknownName(t *testing.T) {
	dictionary, err := NewStaticDictionary(writeDictionaryFiles(t))
	require.NoError(t, err)

	_, err = dictionary.Get("browser_dict")
	require.ErrorIs(t, err, ErrUnknownDictionary)
}

func TestStaticDictionaryMissingFile(t *testing.T) {
	_, err := NewStaticDictionary(t.TempDir())
	require.Error(t, err)
}
