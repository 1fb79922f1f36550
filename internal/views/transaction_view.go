package views

// TransactionRequest is the body for the withdraw/deposit endpoints.
// Amount is validated by the transfer service rather than by binding tags so
// a non-positive amount yields the domain error instead of a generic 400.
type TransactionRequest struct {
	Amount float64 `json:"amount"`
}
