package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestDemoGolden(t *testing.T) {
	for _, sc := range Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			out, err := execute(t, "demo", sc.Name)
			require.NoError(t, err)

			newGoldie(t).Assert(t, sc.Name, out)
		})
	}
}

func TestDemoOnEventLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an event loop per scenario")
	}

	// the loop drives the same trace as the manual host
	for _, sc := range Scenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			out, err := execute(t, "demo", sc.Name, "--loop")
			require.NoError(t, err)

			newGoldie(t).Assert(t, sc.Name, out)
		})
	}
}

func TestDemoCommand(t *testing.T) {
	t.Run("lists scenarios without arguments", func(t *testing.T) {
		out, err := execute(t, "demo")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(out)), "\n")
		require.Len(t, lines, len(Scenarios()))
		assert.True(t, strings.HasPrefix(lines[0], "ordering "))
		assert.Contains(t, lines[0], "pre, post and sync watchers")
	})

	t.Run("rejects an unknown scenario", func(t *testing.T) {
		_, err := execute(t, "demo", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown scenario "nope"`)
	})

	t.Run("honours the recursion limit of the config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reactor.yaml")
		require.NoError(t, os.WriteFile(path, []byte("recursion_limit: 30\n"), 0o644))

		out, err := execute(t, "demo", "recursion", "--config", path)
		require.NoError(t, err)

		assert.Contains(t, string(out), "run 25\n")
		assert.NotContains(t, string(out), "run 50\n")
		assert.Contains(t, string(out), "(job 1 ran 30 times in one flush)")
	})

	t.Run("flags", func(t *testing.T) {
		cmd := NewRootCommand()
		demo, _, err := cmd.Find([]string{"demo"})
		require.NoError(t, err)
		assert.NotNil(t, demo.Flags().Lookup("loop"))
		assert.NotNil(t, demo.Flags().Lookup("timeout"))
	})
}

func TestFindScenario(t *testing.T) {
	sc, ok := FindScenario("postflush")
	require.True(t, ok)
	assert.Equal(t, "postflush", sc.Name)

	_, ok = FindScenario("missing")
	assert.False(t, ok)
}
