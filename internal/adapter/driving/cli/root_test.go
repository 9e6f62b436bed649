package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/hashaudit/internal/adapter/driven/csvexport"
	"github.com/ericfisherdev/hashaudit/internal/adapter/driven/htmlreport"
	"github.com/ericfisherdev/hashaudit/internal/adapter/driven/latex"
	"github.com/ericfisherdev/hashaudit/internal/config"
	"github.com/ericfisherdev/hashaudit/internal/domain/model"
)

const (
	sharedNT = "8846f7eaee8fb117ad06bdd830b7586c"
	uniqueNT = "e19ccf75ee54e06b06a5907af13cef42"
	legacyLM = "e52cac67419a9a224a3b108f3fa6cb6d"
)

func testDump() string {
	return strings.Join([]string{
		`corp\alice:1001:` + model.LMHashAbsent + ":" + sharedNT + "::: (status=Enabled)",
		`corp\bob:1002:` + model.LMHashAbsent + ":" + sharedNT + "::: (status=Enabled)",
		`corp\carol:1003:` + legacyLM + ":" + uniqueNT + "::: (status=Enabled)",
		`corp\guest:501:` + model.LMHashAbsent + ":" + model.NTHashEmptyPassword + "::: (status=Disabled)",
		`corp\old:1004:` + model.LMHashAbsent + ":" + sharedNT + "::: (status=Disabled)",
		`not a dump line`,
		"",
	}, "\n")
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(cfg, discardLogger(), &out)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRootCommand_WritesAllOutputs(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	dump := writeTemp(t, dir, "secrets.txt", testDump())
	admins := writeTemp(t, dir, "admins.txt", "Alice\n")

	out, err := execute(t, &config.Config{}, dump, admins, "--out", outDir, "--html")
	require.NoError(t, err)

	assert.Contains(t, out, "alice")

	dup := readCSV(t, filepath.Join(outDir, csvexport.DuplicateHashesFile))
	require.Len(t, dup, 2)
	assert.Equal(t, []string{"Count", "Hash", "Users"}, dup[0])
	assert.Equal(t, []string{"2", sharedNT, "alice - bob"}, dup[1])

	lm := readCSV(t, filepath.Join(outDir, csvexport.LMHashesFile))
	require.Len(t, lm, 2)
	assert.Equal(t, []string{legacyLM, "carol"}, lm[1])

	tex, err := os.ReadFile(filepath.Join(outDir, latex.OutputFile))
	require.NoError(t, err)
	assert.Contains(t, string(tex), model.MaskHash(sharedNT)+` & 2 \\`)
	assert.NotContains(t, string(tex), sharedNT)

	_, err = os.Stat(filepath.Join(outDir, htmlreport.OutputFile))
	assert.NoError(t, err)
}

func TestRootCommand_AllIncludesDisabled(t *testing.T) {
	dir := t.TempDir()
	dump := writeTemp(t, dir, "secrets.txt", testDump())

	_, err := execute(t, &config.Config{}, dump, "--out", dir, "--all")
	require.NoError(t, err)

	dup := readCSV(t, filepath.Join(dir, csvexport.DuplicateHashesFile))
	require.Len(t, dup, 2)
	assert.Equal(t, "3", dup[1][0])
	assert.Equal(t, "alice - bob - old", dup[1][2])
}

func TestRootCommand_MissingDump(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, &config.Config{}, filepath.Join(dir, "nope.txt"), "--out", dir)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMissingInputFile))
	_, statErr := os.Stat(filepath.Join(dir, csvexport.DuplicateHashesFile))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRootCommand_MissingAdminsFileIsEmptySet(t *testing.T) {
	dir := t.TempDir()
	dump := writeTemp(t, dir, "secrets.txt", testDump())

	out, err := execute(t, &config.Config{}, dump, filepath.Join(dir, "absent.txt"), "--out", dir)

	require.NoError(t, err)
	assert.NotContains(t, out, "alice")
}

func TestRootCommand_RequiresDumpArgument(t *testing.T) {
	_, err := execute(t, &config.Config{})
	require.Error(t, err)
}

func TestRootCommand_BadTemplate(t *testing.T) {
	dir := t.TempDir()
	dump := writeTemp(t, dir, "secrets.txt", testDump())
	tmpl := writeTemp(t, dir, "table.tex", "no marker here")

	_, err := execute(t, &config.Config{}, dump, "--out", dir, "--tex-template", tmpl)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSinkWrite))
	assert.True(t, errors.Is(err, latex.ErrMissingPlaceholder))
	_, statErr := os.Stat(filepath.Join(dir, csvexport.DuplicateHashesFile))
	assert.NoError(t, statErr, "other sinks still run")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	_, err := execute(t, &config.Config{}, "history")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrHistoryDisabled))
}

func TestHistoryCommand_ListsAndShowsRuns(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	dump := writeTemp(t, dir, "secrets.txt", testDump())
	admins := writeTemp(t, dir, "admins.txt", "alice\n")
	cfg := &config.Config{DBPath: dbPath}

	_, err := execute(t, cfg, dump, admins, "--out", dir)
	require.NoError(t, err)

	out, err := execute(t, cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, out, dump)

	db, err := openHistory(context.Background(), dbPath)
	require.NoError(t, err)
	runs, err := listRunIDs(db)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Len(t, runs, 1)

	out, err = execute(t, cfg, "history", runs[0])
	require.NoError(t, err)
	assert.Contains(t, out, model.MaskHash(sharedNT))
	assert.NotContains(t, out, sharedNT)
	assert.Contains(t, out, "privileged accounts sharing a hash: alice")
}

func TestHistoryCommand_Empty(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DBPath: filepath.Join(dir, "history.db")}

	out, err := execute(t, cfg, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "no audit runs recorded")
}

func TestHistoryCommand_DBFlagEnablesHistory(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, &config.Config{}, "history", "--db", filepath.Join(dir, "history.db"))

	require.NoError(t, err)
	assert.Contains(t, out, "no audit runs recorded")
}

func TestRootCommand_BadLinesDoNotAbortRun(t *testing.T) {
	dir := t.TempDir()
	badNT := "\xff" + strings.Repeat("a", 31)
	dump := writeTemp(t, dir, "secrets.txt", strings.Join([]string{
		testDump(),
		`corp\x:1:` + model.LMHashAbsent + ":" + badNT + "::: (status=Enabled)",
		`corp\y:2:` + model.LMHashAbsent + ":" + badNT + "::: (status=Enabled)",
		strings.Repeat("z", 2<<20),
		`corp\dave:1005:` + model.LMHashAbsent + ":" + sharedNT + "::: (status=Enabled)",
	}, "\n"))

	_, err := execute(t, &config.Config{DBPath: filepath.Join(dir, "history.db")}, dump, "--out", dir, "--html")
	require.NoError(t, err)

	dup := readCSV(t, filepath.Join(dir, csvexport.DuplicateHashesFile))
	require.Len(t, dup, 2)
	assert.Equal(t, []string{"3", sharedNT, "alice - bob - dave"}, dup[1])

	tex, err := os.ReadFile(filepath.Join(dir, latex.OutputFile))
	require.NoError(t, err)
	assert.Contains(t, string(tex), model.MaskHash(sharedNT)+` & 3 \\`)
}
