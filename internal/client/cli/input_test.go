package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  Go basics \npartial"))

	first, err := readLine(reader, "Topic", &out)
	require.NoError(t, err)
	second, err := readLine(reader, "Context", &out)
	require.NoError(t, err)
	_, err = readLine(reader, "More", &out)

	assert.Equal(t, "Go basics", first)
	assert.Equal(t, "partial", second)
	assert.Error(t, err)
	assert.Equal(t, "Topic: Context: More: ", out.String())
}

func TestReadCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "3\n", want: 3},
		{input: "\n", want: 0},
		{input: "-1\n", wantErr: true},
		{input: "two\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			got, err := readCount(bufio.NewReader(strings.NewReader(tt.input)), "Easy", &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadSecret(t *testing.T) {
	t.Run("returns the typed password", func(t *testing.T) {
		stubPassword(t, "hunter22")
		var out bytes.Buffer

		got, err := readSecret(&out)

		require.NoError(t, err)
		assert.Equal(t, "hunter22", got)
		assert.Equal(t, "Password: \n", out.String())
	})

	t.Run("terminal error", func(t *testing.T) {
		original := readPassword
		readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
		t.Cleanup(func() { readPassword = original })

		_, err := readSecret(&bytes.Buffer{})

		assert.EqualError(t, err, "not a terminal")
	})
}
