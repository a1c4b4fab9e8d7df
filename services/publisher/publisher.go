package publisher

// Publisher represents a service for publishing scraped unit records
type Publisher interface {
	// Publish sends one unit record
	Publish(unitID string, record []byte) error

	// Close closes the publisher connection
	Close() error
}
