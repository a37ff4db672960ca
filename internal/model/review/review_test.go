package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentiment(t *testing.T) {
	for raw, want := range map[string]Sentiment{
		"":          "",
		"positive":  Positive,
		" Neutral ": Neutral,
		"NEGATIVE":  Negative,
	} {
		got, err := ParseSentiment(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseSentiment("meh")
	assert.Error(t, err)
}
