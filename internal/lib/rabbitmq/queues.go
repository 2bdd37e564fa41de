package rabbitmq

// Ключи маршрутизации событий.
const (
	RoutingExpiring     = "subscription.expiring"
	RoutingSubscription = "subscription.updated"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Queues возвращает очереди, которые объявляются при настройке канала.
func Queues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.expiring", RoutingKey: RoutingExpiring},
		{QueueName: "notification.subscription", RoutingKey: RoutingSubscription},
	}
}
