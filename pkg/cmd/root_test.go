package cmd

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func withLogLevel(t *testing.T, level logrus.Level) *test.Hook {
	previous := logrus.GetLevel()
	logrus.SetLevel(level)
	hook := test.NewGlobal()
	t.Cleanup(func() {
		hook.Reset()
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
		logrus.SetLevel(previous)
	})
	return hook
}

func TestLogCommandErrorIncludesErrorInDebugMode(t *testing.T) {
	// given
	hook := withLogLevel(t, logrus.DebugLevel)

	// when
	logCommandError(&cli.Context{Command: benchCommand}, errors.New("invalid size \"x\""))

	// then
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "bench")
	assert.Contains(t, hook.LastEntry().Message, "invalid size \"x\"")
}

func TestLogCommandErrorSuggestsDebugFlag(t *testing.T) {
	// given
	hook := withLogLevel(t, logrus.InfoLevel)

	// when
	logCommandError(nil, errors.New("boom"))

	// then
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "peerhive --debug")
}

func TestLogCommandErrorIgnoresSuccess(t *testing.T) {
	// given
	hook := withLogLevel(t, logrus.DebugLevel)

	// when
	logCommandError(nil, nil)

	// then
	assert.Empty(t, hook.AllEntries())
}
