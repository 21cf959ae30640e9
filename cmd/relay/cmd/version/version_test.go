package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs(nil)

	require.NoError(t, Cmd.Execute())
	assert.Equal(t, version, strings.TrimSpace(out.String()))
}
