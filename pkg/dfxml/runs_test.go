package dfxml_test

import (
	"io"
	"strings"
	"testing"

	"github.com/ostafen/extractinator/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

func TestOpenContiguous(t *testing.T) {
	img := strings.NewReader("0123456789")

	r, err := dfxml.Contiguous("a", "txt", 3, 4).Open(img, 10)
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "3456", string(data))
}

func TestOpenFragmented(t *testing.T) {
	img := strings.NewReader("abcdefghijklmnop")

	obj := dfxml.FileObject{
		Filename: "frag",
		FileSize: 6,
		ByteRuns: dfxml.ByteRuns{Runs: []dfxml.ByteRun{
			{Offset: 3, ImgOffset: 10, Length: 3},
			{Offset: 0, ImgOffset: 1, Length: 3},
		}},
	}

	r, err := obj.Open(img, 16)
	require.NoError(t, err)
	require.Equal(t, int64(6), r.Size())

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "bcdklm", string(data))

	// read across the run boundary
	p := make([]byte, 3)
	n, err := r.ReadAt(p, 2)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "dkl", string(p))
}

func TestOpenRejectsInvalidRuns(t *testing.T) {
	img := strings.NewReader("0123456789")

	_, err := dfxml.FileObject{Filename: "empty"}.Open(img, 10)
	require.ErrorIs(t, err, dfxml.ErrInvalidRuns)

	_, err = dfxml.Contiguous("big", "bin", 8, 4).Open(img, 10)
	require.ErrorIs(t, err, dfxml.ErrInvalidRuns)

	gap := dfxml.FileObject{
		Filename: "gap",
		ByteRuns: dfxml.ByteRuns{Runs: []dfxml.ByteRun{
			{Offset: 0, ImgOffset: 0, Length: 2},
			{Offset: 4, ImgOffset: 5, Length: 2},
		}},
	}
	_, err = gap.Open(img, 10)
	require.ErrorIs(t, err, dfxml.ErrInvalidRuns)
}
