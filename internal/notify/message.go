package notify

// TypePriceAlert is the discriminator for price alert messages on the
// background delivery channel.
const TypePriceAlert = "PRICE_ALERT"

// AlertMessage is the structured payload sent over the background delivery
// channel. The worker on the other end shows the notification itself.
type AlertMessage struct {
	Type  string  `json:"type"`
	Coin  string  `json:"coin"`
	Price float64 `json:"price"`
	Title string  `json:"title"`
	Body  string  `json:"body"`
}
