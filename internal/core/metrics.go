package core

// Metrics receives lifecycle counters from the hub.
type Metrics interface {
	ConnectionOpened()
	ConnectionClosed()
	RoomCreated()
	RoomDeleted()
	MessageReceived(kind string)
	MessageDelivered()
	DeliverySkipped()
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) ConnectionOpened()      {}
func (NoopMetrics) ConnectionClosed()      {}
func (NoopMetrics) RoomCreated()           {}
func (NoopMetrics) RoomDeleted()           {}
func (NoopMetrics) MessageReceived(string) {}
func (NoopMetrics) MessageDelivered()      {}
func (NoopMetrics) DeliverySkipped()       {}
