package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// fakeTerminal makes stdin look like a tty whose no-echo read returns pw
// and err.
func fakeTerminal(t *testing.T, pw string, err error) {
	t.Helper()
	origRead, origIsTerm := readPassword, isTerminal
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword, isTerminal = origRead, origIsTerm })
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \r\n"), "Enter username", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Enter username: ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetPassword_Terminal(t *testing.T) {
	fakeTerminal(t, "art-teacher", nil)

	var out bytes.Buffer
	pw, err := GetPassword(rdr(""), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("art-teacher"), pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	fakeTerminal(t, "", errors.New("boom"))

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), &out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPassword_TypedAheadInputWins(t *testing.T) {
	fakeTerminal(t, "from-tty", nil)

	r := rdr("typed ahead \nnext\n")
	_, err := r.Peek(1) // fill the buffer as the REPL would have
	require.NoError(t, err)

	pw, err := GetPassword(r, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []byte("typed ahead "), pw, "spaces are part of the password")

	rest, _ := r.ReadString('\n')
	assert.Equal(t, "next\n", rest)
}

func TestGetPassword_PipedInput(t *testing.T) {
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	pw, err := GetPassword(rdr("secret\r\n"), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)

	_, err = GetPassword(rdr(""), io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}
