package endpoint

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

func TestBounded(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		max     int
		want    string
		wantErr bool
	}{
		{"newline stripped", "42\n", 7, "42", false},
		{"no newline", "42", 7, "42", false},
		{"max data plus newline", "1234567\n", 7, "1234567", false},
		{"max data without newline", "1234567", 7, "1234567", false},
		{"empty", "", 7, "", true},
		{"newline only", "\n", 7, "", true},
		{"too long with newline", "12345678\n", 7, "", true},
		{"too long without newline", "12345678", 7, "", true},
		{"only one newline stripped", "1\n\n", 7, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bounded("op", []byte(tt.in), tt.max)
			if tt.wantErr {
				assert.ErrorIs(t, err, fault.ErrInvalid)
				return
			}
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBoundedDoesNotAlias(t *testing.T) {
	data := []byte("7\n")
	got, err := bounded("op", data, 7)
	require.NoError(t, err)

	data[0] = '9'
	assert.Equal(t, "7", got)
}

func TestParseUnsigned(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"+42", 42, false},
		{"0x2A", 42, false},
		{"0x2a", 42, false},
		{"0X2a", 42, false},
		{"052", 42, false},
		{"4294967295", 4294967295, false},
		{"4294967296", 0, true},
		{"08", 0, true},
		{"0x", 0, true},
		{"-1", 0, true},
		{"1_000", 0, true},
		{"abc", 0, true},
		{" 1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseUnsigned(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSigned(t *testing.T) {
	tests := []struct {
		in      string
		want    int32
		wantErr bool
	}{
		{"0", 0, false},
		{"2", 2, false},
		{"-1", -1, false},
		{"+1", 1, false},
		{"0x2", 2, false},
		{"-0x10", -16, false},
		{"010", 8, false},
		{"2147483647", 2147483647, false},
		{"-2147483648", -2147483648, false},
		{"2147483648", 0, true},
		{"-2147483649", 0, true},
		{"--1", 0, true},
		{"", 0, true},
		{"two", 0, true},
		{strings.Repeat("9", 11), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSigned(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSignedOverflowIsRange(t *testing.T) {
	for _, in := range []string{"2147483648", "-2147483649", "99999999999", "0xfffffffff"} {
		_, err := parseSigned(in)
		assert.ErrorIs(t, err, strconv.ErrRange, in)
	}
	for _, in := range []string{"two", "--1", "0x", "9z"} {
		_, err := parseSigned(in)
		require.Error(t, err, in)
		assert.NotErrorIs(t, err, strconv.ErrRange, in)
	}
}
