package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCameraError_Kinds(t *testing.T) {
	cases := []struct {
		kind     CameraErrorKind
		sentinel error
		message  string
	}{
		{CameraPermissionDenied, ErrCameraPermissionDenied, msgCameraPermissionDenied},
		{CameraNotFound, ErrCameraNotFound, msgCameraNotFound},
		{CameraOtherError, ErrCameraOther, msgCameraOther},
	}

	seen := map[string]bool{}
	for _, tc := range cases {
		err := fmt.Errorf("start: %w", NewCameraError(tc.kind, errors.New("boom")))
		require.ErrorIs(t, err, tc.sentinel)

		camErr := AsCameraError(err)
		require.Equal(t, tc.kind, camErr.Kind)
		require.Equal(t, tc.message, camErr.Message())
		seen[camErr.Message()] = true
	}
	require.Len(t, seen, 3)
}

func TestAsCameraError_Unclassified(t *testing.T) {
	require.Nil(t, AsCameraError(nil))

	camErr := AsCameraError(errors.New("usb reset"))
	require.Equal(t, CameraOtherError, camErr.Kind)
	require.ErrorIs(t, camErr, ErrCameraOther)
	require.Contains(t, camErr.Error(), "usb reset")
}
