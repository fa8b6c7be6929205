package pages

import (
	"errors"
	"testing"
	"time"

	"github.com/sylph-test/sylph/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	visible bool
	enabled bool
	err     error
}

func (e *fakeElement) Visible() (bool, error) { return e.visible, e.err }
func (e *fakeElement) Enabled() (bool, error) { return e.enabled, e.err }

func testPage() Page {
	p := newPage("TestPage", framework.NullLogger())
	p.SetElementWait(time.Millisecond * 10)
	return p
}

func TestIsElementAvailableWhenElementIsReady(t *testing.T) {
	p := testPage()
	e := &fakeElement{visible: true, enabled: true}

	assert.True(t, p.IsElementAvailable("button", func() Element { return e }, time.Millisecond*10))
}

func TestIsElementAvailableWhenElementNeverAppears(t *testing.T) {
	p := testPage()
	e := &fakeElement{visible: false, enabled: false}

	assert.False(t, p.IsElementAvailable("button", func() Element { return e }, time.Millisecond*10))
}

func TestIsElementAvailableRequiresVisibleAndEnabled(t *testing.T) {
	p := testPage()

	visibleOnly := &fakeElement{visible: true, enabled: false}
	assert.False(t, p.IsElementAvailable("button", func() Element { return visibleOnly }, time.Millisecond*10))

	enabledOnly := &fakeElement{visible: false, enabled: true}
	assert.False(t, p.IsElementAvailable("button", func() Element { return enabledOnly }, time.Millisecond*10))
}

func TestIsElementAvailableTreatsErrorsAsNotFound(t *testing.T) {
	p := testPage()
	e := &fakeElement{visible: true, enabled: true, err: errors.New("stale element")}

	assert.False(t, p.IsElementAvailable("button", func() Element { return e }, time.Millisecond*10))
}

func TestIsElementAvailableRecoversAfterTransientFailure(t *testing.T) {
	p := testPage()
	calls := 0
	locate := func() Element {
		calls++
		if calls < 2 {
			return &fakeElement{err: errors.New("not there yet")}
		}
		return &fakeElement{visible: true, enabled: true}
	}

	assert.True(t, p.IsElementAvailable("button", locate, time.Second*5))
	assert.GreaterOrEqual(t, calls, 2)
}

func TestWaitForConditionSucceeds(t *testing.T) {
	p := testPage()
	assert.NoError(t, p.WaitForCondition("ready", func() (bool, error) { return true, nil },
		time.Millisecond*10))
}

func TestWaitForConditionTimesOut(t *testing.T) {
	p := testPage()
	err := p.WaitForCondition("ready", func() (bool, error) { return false, nil },
		time.Millisecond*10)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "ready", timeoutErr.Condition)
}

func TestWaitForConditionTreatsErrorsAsFalse(t *testing.T) {
	p := testPage()
	err := p.WaitForCondition("ready", func() (bool, error) { return true, errors.New("boom") },
		time.Millisecond*10)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestValidateLoaded(t *testing.T) {
	p := testPage()

	ready := &fakeElement{visible: true, enabled: true}
	assert.NoError(t, p.ValidateLoaded(func() Element { return ready }))

	missing := &fakeElement{}
	err := p.ValidateLoaded(func() Element { return missing })
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "TestPage", loadErr.PageName)
}
