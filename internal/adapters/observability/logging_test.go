package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONInProd(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "api")

	l.Debug().Msg("hidden")
	l.Info().Int64("venue_id", 7).Msg("venue created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "api", line["service"])
	assert.Equal(t, "venue created", line["message"])
	assert.EqualValues(t, 7, line["venue_id"])
}

func TestNewLogger_ConsoleInDev(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "dev", "seeder")

	l.Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.False(t, json.Valid(buf.Bytes()))
}
