package domain

import "time"

// TimelineEvent — запись жизненного цикла заказа: создание, оплата,
// возврат. Хронология отдаётся в порядке добавления.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
