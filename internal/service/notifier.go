package service

import "github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"

// Notifier is the minimal interface the bid services need from the outbound
// notification side (WS hub, Kafka publisher). Delivery is fire-and-forget:
// implementations must never block a caller on a slow consumer, and a failed
// delivery never rolls back a committed transition.
type Notifier interface {
	NotifyBidEvent(evt *domain.BidEvent)
}

// MultiNotifier fans a bid event out to several sinks.
type MultiNotifier []Notifier

// NotifyBidEvent delivers the event to every registered sink.
func (m MultiNotifier) NotifyBidEvent(evt *domain.BidEvent) {
	for _, n := range m {
		n.NotifyBidEvent(evt)
	}
}
