//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("selkit"), "Should show selkit title")

	tf.Quit()

	if !tf.WaitExit(1500 * time.Millisecond) {
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		t.Fatal("Application did not exit after q")
	}
}

func TestApplicationExitOnCtrlC(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	tf.SendCtrlC()

	require.True(t, tf.WaitExit(1500*time.Millisecond), "Application should exit on Ctrl+C")
}
