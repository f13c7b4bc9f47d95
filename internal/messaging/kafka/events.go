package kafka

// Topics по умолчанию; переопределяются конфигурацией.
const (
	// TopicOrderEvents — события жизненного цикла заказов из outbox.
	TopicOrderEvents = "shop.order.events"
	// TopicDeadLetterQueue — сообщения, не доставленные после всех retry.
	TopicDeadLetterQueue = "shop.dlq"
)
