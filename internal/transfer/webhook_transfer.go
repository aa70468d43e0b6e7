package transfer

// RazorpayEvent is the webhook envelope. Entity payloads are nested one
// level down under the entity type.
type RazorpayEvent struct {
	Entity    string          `json:"entity"`
	AccountID string          `json:"account_id"`
	Event     string          `json:"event"`
	Contains  []string        `json:"contains"`
	Payload   RazorpayPayload `json:"payload"`
	CreatedAt int64           `json:"created_at"`
}

type RazorpayPayload struct {
	Payment      *PaymentWrap      `json:"payment,omitempty"`
	Order        *OrderWrap        `json:"order,omitempty"`
	Subscription *SubscriptionWrap `json:"subscription,omitempty"`
}

type PaymentWrap struct {
	Entity PaymentEntity `json:"entity"`
}

type OrderWrap struct {
	Entity OrderEntity `json:"entity"`
}

type SubscriptionWrap struct {
	Entity SubscriptionEntity `json:"entity"`
}

type PaymentEntity struct {
	ID             string `json:"id"`
	OrderID        string `json:"order_id"`
	SubscriptionID string `json:"subscription_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	Method         string `json:"method"`
	Email          string `json:"email"`
}

type OrderEntity struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type SubscriptionEntity struct {
	ID           string `json:"id"`
	PlanID       string `json:"plan_id"`
	CustomerID   string `json:"customer_id"`
	Status       string `json:"status"`
	Quantity     int    `json:"quantity"`
	PlanAmount   int64  `json:"plan_amount"`
	Currency     string `json:"currency"`
	CurrentStart int64  `json:"current_start"`
	CurrentEnd   int64  `json:"current_end"`
}
