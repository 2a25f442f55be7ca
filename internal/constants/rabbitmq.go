package constants

// Имена объектов RabbitMQ для публикации событий сверки.
const (
	ListingEventsExchange   = "crm_parser_exchange"
	RoutingKeyListingEvents = "listing.events"
)
