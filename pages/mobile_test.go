package pages

import (
	"testing"
	"time"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMobileDriver struct {
	width, height int
	swipes        []SwipePath
}

func (d *fakeMobileDriver) WindowSize() (int, int, error) { return d.width, d.height, nil }

func (d *fakeMobileDriver) Swipe(fromX, fromY, toX, toY int, duration time.Duration) error {
	d.swipes = append(d.swipes, SwipePath{FromX: fromX, FromY: fromY, ToX: toX, ToY: toY, Duration: duration})
	return nil
}

func androidConfig() *session.Config {
	return &session.Config{
		TestContext: session.TestContextConfig{Platform: session.PlatformMobile},
		DesiredCaps: map[string]interface{}{session.CapPlatformName: "Android"},
	}
}

func iosConfig() *session.Config {
	return &session.Config{
		TestContext: session.TestContextConfig{Platform: session.PlatformMobile},
		DesiredCaps: map[string]interface{}{session.CapPlatformName: "iOS"},
	}
}

func newTestMobilePage(t *testing.T, config *session.Config, d *fakeMobileDriver) *MobilePage {
	t.Helper()
	mp, err := NewMobilePage("HomeScreen", d, config, framework.NullLogger(), nil)
	require.NoError(t, err)
	mp.SetElementWait(time.Millisecond * 10)
	return mp
}

func TestMobilePageLoadValidation(t *testing.T) {
	d := &fakeMobileDriver{width: 1000, height: 2000}
	ready := &fakeElement{visible: true, enabled: true}

	mp, err := NewMobilePage("HomeScreen", d, androidConfig(), framework.NullLogger(),
		func() Element { return ready })
	require.NoError(t, err)
	assert.Equal(t, "HomeScreen", mp.Name())
}

func TestMobilePageSwipeUsesPlatformOffsets(t *testing.T) {
	d := &fakeMobileDriver{width: 1000, height: 2000}
	mp := newTestMobilePage(t, androidConfig(), d)

	require.NoError(t, mp.SwipeRightToLeft(MiddleSection))
	require.Len(t, d.swipes, 1)
	assert.Equal(t, 700, d.swipes[0].FromX)
	assert.Equal(t, 300, d.swipes[0].ToX)

	dIOS := &fakeMobileDriver{width: 1000, height: 2000}
	mpIOS := newTestMobilePage(t, iosConfig(), dIOS)

	require.NoError(t, mpIOS.SwipeRightToLeft(MiddleSection))
	require.Len(t, dIOS.swipes, 1)
	assert.Equal(t, 900, dIOS.swipes[0].FromX)
	assert.Equal(t, 200, dIOS.swipes[0].ToX)
}

func TestMobilePageSwipeUp(t *testing.T) {
	d := &fakeMobileDriver{width: 1000, height: 2000}
	mp := newTestMobilePage(t, androidConfig(), d)

	require.NoError(t, mp.SwipeUp(MiddleSection))
	require.Len(t, d.swipes, 1)
	assert.Equal(t, 1000, d.swipes[0].FromY)
	assert.Equal(t, 400, d.swipes[0].ToY)
}

func TestTryFindElementFindsAfterSwipes(t *testing.T) {
	d := &fakeMobileDriver{width: 1000, height: 2000}
	mp := newTestMobilePage(t, androidConfig(), d)

	locate := func() Element {
		if len(d.swipes) >= 3 {
			return &fakeElement{visible: true, enabled: true}
		}
		return &fakeElement{}
	}
	path := BottomToTopPath(false, WindowSize{Width: 1000, Height: 2000}, MiddleSection)

	assert.True(t, mp.TryFindElement("settings button", locate, path, 6))
	assert.Len(t, d.swipes, 3)
}

func TestTryFindElementGivesUpAfterMaxSwipes(t *testing.T) {
	d := &fakeMobileDriver{width: 1000, height: 2000}
	mp := newTestMobilePage(t, androidConfig(), d)

	locate := func() Element { return &fakeElement{} }
	path := BottomToTopPath(false, WindowSize{Width: 1000, Height: 2000}, MiddleSection)

	assert.False(t, mp.TryFindElement("settings button", locate, path, 4))
	assert.Len(t, d.swipes, 4)
}
