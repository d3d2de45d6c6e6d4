package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryKnowsAllSites(t *testing.T) {
	registry := DefaultRegistry()

	for _, typeTag := range []string{"sporting", "tiendariver", "dia", "coto", "solofutbol"} {
		extractor, err := registry.Resolve(typeTag)
		require.NoError(t, err, typeTag)
		assert.Equal(t, typeTag, extractor.Type())
	}
}

func TestRegistryUnknownType(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.Resolve("mercadolibre")

	var unknownErr *UnknownTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "mercadolibre", unknownErr.Type)
}

func TestRegistryTypes(t *testing.T) {
	registry := NewRegistry(NewDia(), NewCoto())

	types := registry.Types()

	assert.Len(t, types, 2)
	assert.Contains(t, types, "dia")
	assert.Contains(t, types, "coto")
}
