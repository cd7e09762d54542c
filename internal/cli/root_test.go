package cli

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "relprep", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName string
	}{
		"config flag exists": {flagName: "config"},
		"debug flag exists":  {flagName: "debug"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.NotNil(t, rootCmd.PersistentFlags().Lookup(tt.flagName))
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		group string
	}{
		"prep":     {group: GroupRelease},
		"classify": {group: GroupInspection},
		"roster":   {group: GroupInspection},
		"history":  {group: GroupInspection},
		"doctor":   {group: GroupInspection},
		"config":   {group: GroupConfiguration},
		"version":  {group: GroupConfiguration},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.Equal(t, tt.group, cmd.GroupID)
		})
	}
}

func TestPrepCmd_Flags(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"previous", "version", "input", "from-git", "fetch", "dry-run", "files", "repo"} {
		assert.NotNil(t, prepCmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, ".", prepCmd.Flags().Lookup("repo").DefValue)
}

func TestConfigureLogging(t *testing.T) {
	var buf bytes.Buffer

	configureLogging(&buf, true)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.Debug("walking history")
	assert.Contains(t, buf.String(), "walking history")

	configureLogging(&buf, false)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
