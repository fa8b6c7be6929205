package pages

import "time"

// ViewSection selects which horizontal band of the screen a swipe starts in, as a
// percentage of the screen height (or width, for vertical swipes).
type ViewSection int

const (
	UpperSection  ViewSection = 25
	MiddleSection ViewSection = 50
	LowerSection  ViewSection = 75
)

// DefaultSwipeDuration is how long a swipe gesture takes unless overridden.
const DefaultSwipeDuration = time.Millisecond * 500

// WindowSize is a device screen size in points.
type WindowSize struct {
	Width  int
	Height int
}

// SwipePath is a fully resolved swipe gesture.
type SwipePath struct {
	FromX, FromY int
	ToX, ToY     int
	Duration     time.Duration
}

// Reversed returns the same path in the opposite direction.
func (sp SwipePath) Reversed() SwipePath {
	return SwipePath{FromX: sp.ToX, FromY: sp.ToY, ToX: sp.FromX, ToY: sp.FromY, Duration: sp.Duration}
}

// Horizontal swipe endpoints. iOS taps register closer to the screen edges than Android,
// so the start and end offsets differ per platform.

func horizontalPath(isIOS bool, size WindowSize, startAt ViewSection) SwipePath {
	startOffset, endOffset := 0.70, 0.30
	if isIOS {
		startOffset, endOffset = 0.90, 0.20
	}
	y := size.Height * int(startAt) / 100
	return SwipePath{
		FromX:    int(float64(size.Width) * startOffset),
		FromY:    y,
		ToX:      int(float64(size.Width) * endOffset),
		ToY:      y,
		Duration: DefaultSwipeDuration,
	}
}

func verticalPath(isIOS bool, size WindowSize, startAt ViewSection) SwipePath {
	startOffset, endOffset := 0.50, 0.20
	if isIOS {
		startOffset, endOffset = 0.60, 0.15
	}
	x := size.Width * int(startAt) / 100
	return SwipePath{
		FromX:    x,
		FromY:    int(float64(size.Height) * startOffset),
		ToX:      x,
		ToY:      int(float64(size.Height) * endOffset),
		Duration: DefaultSwipeDuration,
	}
}

// RightToLeftPath returns the swipe for paging right-to-left, starting in the given
// screen section.
func RightToLeftPath(isIOS bool, size WindowSize, startAt ViewSection) SwipePath {
	return horizontalPath(isIOS, size, startAt)
}

// LeftToRightPath returns the swipe for paging left-to-right.
func LeftToRightPath(isIOS bool, size WindowSize, startAt ViewSection) SwipePath {
	return horizontalPath(isIOS, size, startAt).Reversed()
}

// BottomToTopPath returns the swipe for scrolling content upward.
func BottomToTopPath(isIOS bool, size WindowSize, startAt ViewSection) SwipePath {
	return verticalPath(isIOS, size, startAt)
}

// TopToBottomPath returns the swipe for scrolling content downward.
func TopToBottomPath(isIOS bool, size WindowSize, startAt ViewSection) SwipePath {
	return verticalPath(isIOS, size, startAt).Reversed()
}
