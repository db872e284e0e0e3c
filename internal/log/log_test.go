package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *strings.Builder {
	t.Helper()
	var buf strings.Builder
	SetEnabled(true)
	SetMinLevel(LevelDebug)
	SetWriter(&buf)
	t.Cleanup(func() {
		SetEnabled(false)
		SetWriter(nil)
	})
	return &buf
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(99).String())
}

func TestWrite_FormatsLevelCategoryAndFields(t *testing.T) {
	buf := capture(t)

	Debug(CatRegistry, "sentinel created", "key", "string", "registry", "Sentinel")

	line := buf.String()
	require.Contains(t, line, "[DEBUG]")
	require.Contains(t, line, "[registry]")
	require.Contains(t, line, "sentinel created")
	require.Contains(t, line, "key=string")
	require.Contains(t, line, "registry=Sentinel")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestWrite_OddFieldCountIsMarked(t *testing.T) {
	buf := capture(t)

	Info(CatCache, "partial", "orphan")

	require.Contains(t, buf.String(), "orphan=<missing>")
}

func TestWrite_RespectsMinLevel(t *testing.T) {
	buf := capture(t)
	SetMinLevel(LevelWarn)

	Debug(CatCodec, "hidden")
	Warn(CatCodec, "visible")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "visible")
}

func TestWrite_DisabledWritesNothing(t *testing.T) {
	buf := capture(t)
	SetEnabled(false)

	Error(CatEvents, "dropped")

	require.Empty(t, buf.String())
}

func TestErrorErr_AppendsError(t *testing.T) {
	buf := capture(t)

	ErrorErr(CatRegistry, "decode failed", assertErr{})

	require.Contains(t, buf.String(), "error=boom")
}

func TestErrorErr_NilError(t *testing.T) {
	buf := capture(t)

	ErrorErr(CatRegistry, "no cause", nil)

	require.Contains(t, buf.String(), "error=<nil>")
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
