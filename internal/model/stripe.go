package model

const (
	EventCheckoutSessionCompleted   = "checkout.session.completed"
	EventPaymentIntentPaymentFailed = "payment_intent.payment_failed"
)

// PaymentEvent is a verified processor event. The set of implementations is
// closed: CheckoutCompleted, PaymentFailed and UnrecognizedEvent.
type PaymentEvent interface {
	EventID() string
	EventType() string
	paymentEvent()
}

// CheckoutCompleted carries the order identity round-tripped through session metadata.
type CheckoutCompleted struct {
	ID        string
	SessionID string
	OrderID   string
	UserID    string
}

func (e CheckoutCompleted) EventID() string   { return e.ID }
func (e CheckoutCompleted) EventType() string { return EventCheckoutSessionCompleted }
func (CheckoutCompleted) paymentEvent()       {}

type PaymentFailed struct {
	ID              string
	PaymentIntentID string
	Reason          string
}

func (e PaymentFailed) EventID() string   { return e.ID }
func (e PaymentFailed) EventType() string { return EventPaymentIntentPaymentFailed }
func (PaymentFailed) paymentEvent()       {}

// UnrecognizedEvent is any event type this service does not act on.
type UnrecognizedEvent struct {
	ID   string
	Type string
}

func (e UnrecognizedEvent) EventID() string   { return e.ID }
func (e UnrecognizedEvent) EventType() string { return e.Type }
func (UnrecognizedEvent) paymentEvent()       {}

type CheckoutLineItem struct {
	Name            string
	UnitAmountMinor int64
	Quantity        int64
}

type CheckoutSessionRequest struct {
	Currency   string
	LineItems  []CheckoutLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}
