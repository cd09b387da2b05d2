package domain

type ConversationStep string

const (
	StepIdle            ConversationStep = "idle"
	StepAwaitingInput   ConversationStep = "awaiting_input"
	StepAwaitingPayment ConversationStep = "awaiting_payment"
)

// Conversation состояние диалога покупки для одного пользователя
type Conversation struct {
	Step    ConversationStep `json:"step"`
	ForSelf bool             `json:"for_self,omitempty"`
	OrderID string           `json:"order_id,omitempty"`
	// пользователь уже сообщил об оплате OrderID, админ уведомлён
	PaymentReported bool `json:"payment_reported,omitempty"`
}

func IdleConversation() Conversation {
	return Conversation{Step: StepIdle}
}

func AwaitingInput(forSelf bool) Conversation {
	return Conversation{Step: StepAwaitingInput, ForSelf: forSelf}
}

func AwaitingPayment(forSelf bool, orderID string) Conversation {
	return Conversation{Step: StepAwaitingPayment, ForSelf: forSelf, OrderID: orderID}
}

func (c Conversation) WithPaymentReported() Conversation {
	c.PaymentReported = true
	return c
}

func (c Conversation) IsIdle() bool {
	return c.Step == "" || c.Step == StepIdle
}

// ExpectsOrderInput новый ввод в awaiting_payment тоже разбирается как заказ (последний побеждает)
func (c Conversation) ExpectsOrderInput() bool {
	return c.Step == StepAwaitingInput || c.Step == StepAwaitingPayment
}
