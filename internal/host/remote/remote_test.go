package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamera_PushRequiresRunning(t *testing.T) {
	cam := NewCamera(true)
	assert.ErrorIs(t, cam.Push("beam:addr"), domainErrors.ErrCameraNotRunning)

	var got []string
	require.NoError(t, cam.AttachInput())
	require.NoError(t, cam.AttachDecoder(scan.DefaultSymbologies, func(v string) { got = append(got, v) }))
	require.NoError(t, cam.StartRunning(context.Background()))

	require.NoError(t, cam.Push("a"))
	require.NoError(t, cam.Push("b"))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, scan.DefaultSymbologies, cam.Symbologies())

	cam.StopRunning()
	cam.Release()
	assert.ErrorIs(t, cam.Push("c"), domainErrors.ErrCameraNotRunning)
	assert.False(t, cam.Running())
}

func TestCamera_Absent(t *testing.T) {
	dev, ok := NewCamera(false).DefaultDevice()
	assert.False(t, ok)
	assert.Nil(t, dev)
}

func TestCamera_Rejections(t *testing.T) {
	cam := NewCamera(true)
	cam.RejectInput(errors.New("in use"))
	cam.RejectOutput(errors.New("no decoder"))

	assert.Error(t, cam.AttachInput())
	assert.Error(t, cam.AttachDecoder(nil, func(string) {}))
}

func TestAuthorizer_Prompt(t *testing.T) {
	a := NewAuthorizer(scan.PermissionUndetermined)
	assert.ErrorIs(t, a.Answer(true), domainErrors.ErrNoPromptPending)

	done := make(chan bool, 1)
	go func() {
		granted, err := a.RequestAccess(context.Background())
		assert.NoError(t, err)
		done <- granted
	}()

	require.Eventually(t, a.Prompting, time.Second, time.Millisecond)
	require.NoError(t, a.Answer(true))

	assert.True(t, <-done)
	assert.Equal(t, scan.PermissionAuthorized, a.AuthorizationStatus())
	assert.False(t, a.Prompting())
}

func TestAuthorizer_PromptCancelled(t *testing.T) {
	a := NewAuthorizer(scan.PermissionUndetermined)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := a.RequestAccess(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, scan.PermissionUndetermined, a.AuthorizationStatus())
}

func TestAuthorizer_CloseAbandonsPrompt(t *testing.T) {
	a := NewAuthorizer(scan.PermissionUndetermined)

	done := make(chan error, 1)
	go func() {
		_, err := a.RequestAccess(context.Background())
		done <- err
	}()

	require.Eventually(t, a.Prompting, time.Second, time.Millisecond)
	a.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domainErrors.ErrSessionCancelled)
	case <-time.After(time.Second):
		t.Fatal("prompt still waiting after Close")
	}
	assert.False(t, a.Prompting())
	assert.ErrorIs(t, a.Answer(true), domainErrors.ErrNoPromptPending)
	assert.Equal(t, scan.PermissionUndetermined, a.AuthorizationStatus())

	// Closed authorizers refuse new prompts at once.
	_, err := a.RequestAccess(context.Background())
	assert.ErrorIs(t, err, domainErrors.ErrSessionCancelled)
	assert.NotPanics(t, a.Close)
}

func TestAuthorizer_SetStatus(t *testing.T) {
	a := NewAuthorizer(scan.PermissionAuthorized)
	a.SetStatus(scan.PermissionRestricted)
	assert.Equal(t, scan.PermissionRestricted, a.AuthorizationStatus())
}

func TestCamera_Acknowledge(t *testing.T) {
	cam := NewCamera(true)
	cam.Acknowledge()
	cam.Acknowledge()
	assert.Equal(t, 2, cam.Acknowledged())
}
