package script

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReadText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr error
	}{
		{
			name:  "plain ascii",
			input: []byte("1+1"),
			want:  "1+1",
		},
		{
			name:  "multibyte utf-8",
			input: []byte("'héllo wörld'"),
			want:  "'héllo wörld'",
		},
		{
			name:  "utf-8 bom is stripped",
			input: []byte("\xef\xbb\xbf'hi'"),
			want:  "'hi'",
		},
		{
			name:  "utf-16 little endian with bom",
			input: []byte{0xff, 0xfe, '4', 0x00, '2', 0x00},
			want:  "42",
		},
		{
			name:  "empty input",
			input: []byte{},
			want:  "",
		},
		{
			name:    "invalid utf-8",
			input:   []byte{'a', 0xff, 0xfe, 0xfd, 'b'},
			wantErr: ErrInvalidEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ReadText(bytes.NewReader(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got))
		})
	}
}

func TestReadTextErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadText(nil)
	require.ErrorIs(t, err, ErrContentNil)

	_, err = ReadText(failingReader{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk on fire")
	require.NotErrorIs(t, err, ErrInvalidEncoding)
}

func TestReadBinary(t *testing.T) {
	t.Parallel()

	raw := []byte{0x00, 0x61, 0x73, 0x6d, 0xff}
	got, err := ReadBinary(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, raw, got)

	_, err = ReadBinary(nil)
	require.ErrorIs(t, err, ErrContentNil)

	_, err = ReadBinary(failingReader{})
	require.Error(t, err)
}
