package coinranking

// APIResponse is the JSON envelope returned by the coins endpoint. Only the
// fields the poller consumes are decoded; everything else is ignored.
type APIResponse struct {
	Status string  `json:"status"`
	Data   APIData `json:"data"`
}

// APIData holds the payload of a coins response.
type APIData struct {
	Coins []APICoin `json:"coins"`
}

// APICoin is a single coin entry. Price is a decimal string in the upstream
// payload and is parsed by the caller; a missing or malformed price for one
// coin must not abort the whole update.
type APICoin struct {
	UUID   string `json:"uuid"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}
