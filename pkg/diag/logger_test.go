package diag_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(offset int) source.Span {
	return source.NewSpan(0, offset, 1, 1, offset+1)
}

func TestSuppressionRangeFiltersMatchingCode(t *testing.T) {
	l := diag.NewLogger(diag.DefaultLocale())

	l.DisableWarning(diag.MacroArgCountMismatch, 10)
	l.Log(diag.MacroArgCountMismatch, span(15), "FOO", 1, 2)
	l.RestoreWarning(diag.MacroArgCountMismatch, 20)

	// A different code in the same range is retained.
	l.Log(diag.UnreachableCode, span(12))

	require.Len(t, l.Messages(), 1)
	assert.Equal(t, diag.UnreachableCode, l.Messages()[0].Code)
}

func TestSuppressionRangeDoesNotAffectOutsideOffsets(t *testing.T) {
	l := diag.NewLogger(diag.DefaultLocale())

	l.DisableWarning(diag.MacroArgCountMismatch, 10)
	l.RestoreWarning(diag.MacroArgCountMismatch, 20)
	l.Log(diag.MacroArgCountMismatch, span(25), "FOO", 1, 2)

	require.Len(t, l.Messages(), 1)
}

func TestTooManyErrorsEscalatesToCritical(t *testing.T) {
	l := diag.NewLogger(diag.DefaultLocale())

	for i := 0; i < 101; i++ {
		l.Log(diag.SymbolNotFound, span(i), "x")
	}

	assert.True(t, l.Critical())
}

func TestUnknownCodeFallsBackToPlaceholderMessage(t *testing.T) {
	locale := diag.Locale{}
	custom := diag.NewCode(diag.SeverityError, 9999)
	assert.Equal(t, "Unknown localization code", locale.Message(custom))
}
