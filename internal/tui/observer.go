package tui

import "github.com/mmcdole/reel/internal/domain"

// ChannelNotifier adapts domain.Notifier to a channel for Bubble Tea.
type ChannelNotifier struct {
	ch chan domain.Notification
}

// NewChannelNotifier creates a notifier buffering up to size notifications.
func NewChannelNotifier(size int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan domain.Notification, size)}
}

// Notify sends n to the channel (non-blocking if full).
func (o *ChannelNotifier) Notify(n domain.Notification) {
	select {
	case o.ch <- n:
	default: // Drop rather than stall a fetch or favorites write
	}
}

// C returns the receive side for WaitForNotificationCmd.
func (o *ChannelNotifier) C() <-chan domain.Notification {
	return o.ch
}
