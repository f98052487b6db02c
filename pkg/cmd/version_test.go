package cmd

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withBuild sets the ldflags variables and the recorded build info for one test.
func withBuild(t *testing.T, version, sha string, info *debug.BuildInfo) {
	t.Helper()
	oldVersion, oldSHA, oldInfo := Version, GitSHA, buildInfo
	t.Cleanup(func() {
		Version, GitSHA, buildInfo = oldVersion, oldSHA, oldInfo
	})
	Version, GitSHA = version, sha
	buildInfo = func() (*debug.BuildInfo, bool) {
		return info, info != nil
	}
}

func TestVersionCmd(t *testing.T) {
	recorded := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/tetrisp2p/peerlist", Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: "0123abcd"},
		},
	}

	testCases := []struct {
		name    string
		version string
		sha     string
		info    *debug.BuildInfo
		want    string
	}{
		{
			name:    "ldflags",
			version: "v0.1.0-test",
			sha:     "abcdef123test",
			info:    recorded,
			want:    "peerlist version:  v0.1.0-test\npeerlist git sha:  abcdef123test\n",
		},
		{
			name: "build info fallback",
			info: recorded,
			want: "peerlist version:  v1.2.3\npeerlist git sha:  0123abcd\n",
		},
		{
			name:    "mixed",
			version: "v0.1.0-test",
			info:    recorded,
			want:    "peerlist version:  v0.1.0-test\npeerlist git sha:  0123abcd\n",
		},
		{
			name: "nothing recorded",
			want: "peerlist version:  unknown\npeerlist git sha:  unknown\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			withBuild(t, tc.version, tc.sha, tc.info)

			out, stderr, err := run(t, "version")
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
			assert.Empty(t, stderr)
		})
	}
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	withBuild(t, "v0.1.0-test", "abcdef123test", nil)

	out, _, err := run(t, "version", "extra")
	require.Error(t, err)
	assert.Empty(t, out)
}
