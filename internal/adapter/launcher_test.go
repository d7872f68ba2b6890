package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startCall struct {
	name string
	args []string
}

func recordingLauncher(command, goos string, fail error) (*Launcher, *[]startCall) {
	var calls []startCall
	l := NewLauncher(command, NullLogger())
	l.goos = goos
	l.start = func(name string, args ...string) error {
		calls = append(calls, startCall{name: name, args: args})
		return fail
	}
	return l, &calls
}

func TestLauncher_SystemDefault(t *testing.T) {
	const url = "https://www.themoviedb.org/movie/603"
	tests := []struct {
		goos string
		want startCall
	}{
		{"linux", startCall{"xdg-open", []string{url}}},
		{"darwin", startCall{"open", []string{url}}},
		{"windows", startCall{"cmd", []string{"/c", "start", "", url}}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			l, calls := recordingLauncher("", tt.goos, nil)
			require.NoError(t, l.Launch(url))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.want, (*calls)[0])
		})
	}
}

func TestLauncher_ConfiguredCommand(t *testing.T) {
	l, calls := recordingLauncher("firefox --new-tab", "linux", nil)
	require.NoError(t, l.Launch("https://image.tmdb.org/t/p/w500/x.jpg"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "firefox", (*calls)[0].name)
	assert.Equal(t, []string{"--new-tab", "https://image.tmdb.org/t/p/w500/x.jpg"}, (*calls)[0].args)

	// Args are not mutated between launches
	require.NoError(t, l.Launch("https://example.com/b"))
	assert.Equal(t, []string{"--new-tab", "https://example.com/b"}, (*calls)[1].args)
}

func TestLauncher_RejectsBadURLs(t *testing.T) {
	l, calls := recordingLauncher("", "linux", nil)
	assert.Error(t, l.Launch(""))
	assert.Error(t, l.Launch("file:///etc/passwd"))
	assert.Empty(t, *calls)
}

func TestLauncher_StartFailure(t *testing.T) {
	l, _ := recordingLauncher("", "linux", errors.New("not found"))
	assert.ErrorContains(t, l.Launch("https://example.com"), "not found")
}
