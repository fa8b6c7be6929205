package framework

// Standard capability names that driver adapters may report. A test can require
// one of these with sylphtest.(*T).RequireCapability before using behavior that
// not every platform supports.
const (
	CapabilityScreenshots = "screenshots"
	CapabilitySwipe       = "swipe"
	CapabilityJavaScript  = "javascript"
	CapabilityStreaming   = "streaming"
	CapabilityHeadless    = "headless"
)

// Capabilities is a list of strings describing what a driver adapter supports.
type Capabilities []string

// Has returns true if the specified string appears in the list.
func (cs Capabilities) Has(name string) bool {
	for _, c := range cs {
		if c == name {
			return true
		}
	}
	return false
}
