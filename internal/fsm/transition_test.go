package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidTransitionHappyPath(t *testing.T) {
	require.True(t, ValidTransition(Idle(), Connecting()))
	require.True(t, ValidTransition(Connecting(), RecordingListening()))
	require.True(t, ValidTransition(RecordingListening(), RecordingTranscribing("hi")))
	require.True(t, ValidTransition(RecordingTranscribing("hi"), Processing()))
	require.True(t, ValidTransition(Processing(), Injecting()))
	require.True(t, ValidTransition(Injecting(), Idle()))
}

func TestValidTransitionRecordingSelfRefinementAlwaysValid(t *testing.T) {
	require.True(t, ValidTransition(RecordingListening(), RecordingListening()))
	require.True(t, ValidTransition(RecordingListening(), RecordingTranscribing("partial one")))
	require.True(t, ValidTransition(RecordingTranscribing("partial one"), RecordingTranscribing("partial two")))
}

func TestValidTransitionRecordingToIdleIsUserCancel(t *testing.T) {
	require.True(t, ValidTransition(RecordingListening(), Idle()))
	require.True(t, ValidTransition(RecordingTranscribing("x"), Idle()))
}

func TestValidTransitionProcessingToIdleIsTimeoutOrCancel(t *testing.T) {
	require.True(t, ValidTransition(Processing(), Idle()))
}

func TestValidTransitionErrorRecovery(t *testing.T) {
	require.True(t, ValidTransition(Error("boom"), Idle()))
}

func TestValidTransitionAnyToErrorAlwaysValid(t *testing.T) {
	for _, from := range []State{Idle(), Connecting(), RecordingListening(), Processing(), Injecting(), Error("x")} {
		require.True(t, ValidTransition(from, Error("failure")))
	}
}

func TestValidTransitionRejectsSkippedStates(t *testing.T) {
	require.False(t, ValidTransition(Idle(), RecordingListening()))
	require.False(t, ValidTransition(Idle(), Processing()))
	require.False(t, ValidTransition(Connecting(), Idle()))
	require.False(t, ValidTransition(Connecting(), Processing()))
	require.False(t, ValidTransition(Processing(), RecordingListening()))
	require.False(t, ValidTransition(Injecting(), RecordingListening()))
	require.False(t, ValidTransition(Injecting(), Processing()))
}
