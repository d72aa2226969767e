package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

const rawClean = `<?xml version='1.0' encoding='UTF-8'?>
<checkstyle version='4.3'>
<file name='clean.sh'>
</file>
</checkstyle>`

const rawDirty = `<?xml version='1.0' encoding='UTF-8'?>
<checkstyle version='4.3'>
<file name='dirty.sh'>
<error line='2' column='8' severity='warning' message='Double quote to prevent globbing.' source='ShellCheck.SC2086'/>
<error line='5' column='1' severity='style' message='Consider using { cmd1; cmd2; }.' source='ShellCheck.SC2129'/>
</file>
</checkstyle>`

func TestMergePreservesFileOrder(t *testing.T) {
	doc, err := Merge([]string{rawClean, rawDirty})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, Version, doc.Version)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "clean.sh", doc.Files[0].Name)
	assert.Equal(t, "dirty.sh", doc.Files[1].Name)
	assert.Len(t, doc.Files[0].Errors, 0)
	assert.Len(t, doc.Files[1].Errors, 2)
}

func TestMergeIncrementalMatchesSinglePass(t *testing.T) {
	const rawThird = `<?xml version='1.0' encoding='UTF-8'?>
<checkstyle version='4.3'>
<file name='third.sh'>
<error line='7' column='3' severity='info' message='Expressions dont expand in single quotes.' source='ShellCheck.SC2016'/>
</file>
</checkstyle>`

	onePass, err := Merge([]string{rawClean, rawDirty, rawThird})
	require.NoError(t, err)
	require.NotNil(t, onePass)

	incremental, err := Merge([]string{rawClean, rawDirty})
	require.NoError(t, err)
	require.NoError(t, MergeInto(incremental, rawThird))

	assert.Equal(t, onePass, incremental, "appending a fragment equals merging it in one pass")
}

func TestMergeNothingContributedYieldsNil(t *testing.T) {
	doc, err := Merge(nil)
	require.NoError(t, err)
	assert.Nil(t, doc)

	doc, err = Merge([]string{"", "   \n", NoSourceFiles})
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestMergeSkipsSentinelInterleaved(t *testing.T) {
	doc, err := Merge([]string{rawClean, NoSourceFiles + "\n", rawDirty})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Len(t, doc.Files, 2)
}

func TestMergeDiscardsDiagnosticsBeforeDeclaration(t *testing.T) {
	noisy := "warning: unrecognized locale, falling back to C\n" + rawDirty
	doc, err := Merge([]string{noisy})
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "dirty.sh", doc.Files[0].Name)
}

func TestMergeMalformedOutput(t *testing.T) {
	_, err := Merge([]string{"shellcheck: error: unknown flag --bogus"})
	var malformed *domain.MalformedReportError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Output, "--bogus")
}

func TestMergeBrokenXMLAfterDeclaration(t *testing.T) {
	_, err := Merge([]string{"<?xml version='1.0'?><checkstyle><file"})
	require.Error(t, err)
	var malformed *domain.MalformedReportError
	assert.False(t, errors.As(err, &malformed), "broken XML is a parse error, not a missing declaration")
}

func TestMergeViolationAttributes(t *testing.T) {
	doc, err := Merge([]string{rawDirty})
	require.NoError(t, err)
	v := doc.Files[0].Errors[0]
	assert.Equal(t, "2", v.Line)
	assert.Equal(t, "8", v.Column)
	assert.Equal(t, "warning", v.Severity)
	assert.Equal(t, "ShellCheck.SC2086", v.Source)
	assert.Contains(t, v.Message, "Double quote")
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	doc, err := Merge([]string{rawDirty})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "build", "reports", "shellcheck.xml")
	require.NoError(t, WriteFile(doc, dest))

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, `version="4.3"`)
	assert.Contains(t, text, `name="dirty.sh"`)
	assert.Equal(t, 2, strings.Count(text, "<error"))
}

func TestWriteThenMergeRoundTrip(t *testing.T) {
	doc, err := Merge([]string{rawClean, rawDirty})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "shellcheck.xml")
	require.NoError(t, WriteFile(doc, dest))

	body, err := os.ReadFile(dest)
	require.NoError(t, err)

	again, err := Merge([]string{string(body)})
	require.NoError(t, err)
	assert.Equal(t, doc.Files, again.Files)
}
