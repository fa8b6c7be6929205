package pages

import (
	"time"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/session"
)

const defaultMaxSwipes = 6

// MobileDriver is what a mobile page object needs from the driver. The appium adapter
// satisfies it.
type MobileDriver interface {
	WindowSize() (width, height int, err error)
	Swipe(fromX, fromY, toX, toY int, duration time.Duration) error
}

// MobilePage is the base for page objects driving a native mobile app.
type MobilePage struct {
	Page
	driver MobileDriver
	config *session.Config
}

// NewMobilePage creates the base for a mobile page object. If loadIndicator is non-nil,
// the page is validated by waiting for that element and a LoadError is returned when it
// does not appear.
func NewMobilePage(name string, driver MobileDriver, config *session.Config,
	logger framework.Logger, loadIndicator func() Element) (*MobilePage, error) {
	mp := &MobilePage{
		Page:   newPage(name, logger),
		driver: driver,
		config: config,
	}
	if loadIndicator != nil {
		if err := mp.ValidateLoaded(loadIndicator); err != nil {
			return nil, err
		}
	}
	return mp, nil
}

func (mp *MobilePage) Driver() MobileDriver    { return mp.driver }
func (mp *MobilePage) Config() *session.Config { return mp.config }

func (mp *MobilePage) windowSize() (WindowSize, error) {
	width, height, err := mp.driver.WindowSize()
	return WindowSize{Width: width, Height: height}, err
}

// Swipe performs a resolved swipe path.
func (mp *MobilePage) Swipe(path SwipePath) error {
	return mp.driver.Swipe(path.FromX, path.FromY, path.ToX, path.ToY, path.Duration)
}

// SwipeRightToLeft pages the view right-to-left, starting in the given screen section.
func (mp *MobilePage) SwipeRightToLeft(startAt ViewSection) error {
	size, err := mp.windowSize()
	if err != nil {
		return err
	}
	return mp.Swipe(RightToLeftPath(mp.config.IsIOS(), size, startAt))
}

// SwipeLeftToRight pages the view left-to-right.
func (mp *MobilePage) SwipeLeftToRight(startAt ViewSection) error {
	size, err := mp.windowSize()
	if err != nil {
		return err
	}
	return mp.Swipe(LeftToRightPath(mp.config.IsIOS(), size, startAt))
}

// SwipeUp scrolls the content upward (a bottom-to-top gesture).
func (mp *MobilePage) SwipeUp(startAt ViewSection) error {
	size, err := mp.windowSize()
	if err != nil {
		return err
	}
	return mp.Swipe(BottomToTopPath(mp.config.IsIOS(), size, startAt))
}

// SwipeDown scrolls the content downward (a top-to-bottom gesture).
func (mp *MobilePage) SwipeDown(startAt ViewSection) error {
	size, err := mp.windowSize()
	if err != nil {
		return err
	}
	return mp.Swipe(TopToBottomPath(mp.config.IsIOS(), size, startAt))
}

// TryFindElement swipes repeatedly until the element is available or maxSwipes is
// reached. A maxSwipes of zero means the default of 6. The element check after each
// swipe uses a short wait, since each swipe settles quickly.
func (mp *MobilePage) TryFindElement(name string, locate func() Element, swipe SwipePath, maxSwipes int) bool {
	if maxSwipes <= 0 {
		maxSwipes = defaultMaxSwipes
	}
	checkWait := time.Second * 2
	if mp.ElementWait() < checkWait {
		checkWait = mp.ElementWait()
	}
	for attempt := 0; attempt < maxSwipes; attempt++ {
		mp.Logger().Printf("Swiping...")
		if err := mp.Swipe(swipe); err != nil {
			mp.Logger().Printf("Swipe failed: %s", err)
			return false
		}
		if mp.IsElementAvailable(name, locate, checkWait) {
			return true
		}
	}
	return false
}
