package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ostafen/extractinator/internal/signature"
	"github.com/stretchr/testify/require"
)

var samplePNG = []byte("\x89PNG\x0d\x0a\x1a\x0apixelsIEND\xae\x42\x60\x82")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(input, append([]byte("junk"), samplePNG...), 0644))

	outDir := filepath.Join(dir, "out")
	out, err := run(t, "extract", input, "png", "-o", outDir, "--no-log", "--no-progress")
	require.NoError(t, err)
	require.Contains(t, out, "Finished processing "+input+" with 1 files found inside!")

	data, err := os.ReadFile(filepath.Join(outDir, "1.png"))
	require.NoError(t, err)
	require.Equal(t, samplePNG, data)
}

func TestExtractCommandUnknownFormat(t *testing.T) {
	input := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(input, samplePNG, 0644))

	_, err := run(t, "extract", input, "bmp", "--no-log", "-o", t.TempDir())
	require.ErrorIs(t, err, signature.ErrUnknownFormat)
}

func TestExtractCommandRequiresFormats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(input, samplePNG, 0644))

	outDir := filepath.Join(dir, "out")
	_, err := run(t, "extract", input, "--no-log", "-o", outDir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no formats given")
	require.NoFileExists(t, filepath.Join(outDir, "1.png"))

	// more than one input never prompts
	_, err = run(t, "extract", "--formats", "", "--no-log", "-o", outDir, input, input)
	require.ErrorIs(t, err, errNoFormats)
	require.NoDirExists(t, filepath.Join(outDir, "blob.bin"))
}

func TestExtractCommandWithSignatureFile(t *testing.T) {
	dir := t.TempDir()

	sigFile := filepath.Join(dir, "sigs.yaml")
	require.NoError(t, os.WriteFile(sigFile, []byte(`
signatures:
  - name: txt
    encoding: text
    start: "<<"
    end: ">>"
`), 0644))

	input := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(input, []byte("..<<hello>>.."), 0644))

	outDir := filepath.Join(dir, "out")
	_, err := run(t, "extract", "--formats", "txt", "--signatures", sigFile, "--no-log", "-o", outDir, input)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "<<hello>>", string(data))
}

func TestPromptFormats(t *testing.T) {
	var out bytes.Buffer

	formats, err := promptFormats(strings.NewReader("PNG  gif\n"), &out, signature.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"PNG", "gif"}, formats)
	require.Contains(t, out.String(), "Supported formats: png jpg gif pdf")

	_, err = promptFormats(strings.NewReader("\n"), &out, signature.Default())
	require.Error(t, err)
}

func TestFormatsCommand(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)
	require.Contains(t, out, "89504e470d0a1a0a")
	require.Contains(t, out, "49454e44ae426082")
}

func TestGetMountpoint(t *testing.T) {
	require.Equal(t, "report", getMountpoint("/tmp/report.xml"))
	require.Equal(t, "report_mnt", getMountpoint("report"))
}
