package entities

import "time"

// Submission is one contract write attempted by a form
type Submission struct {
	ID        string       `json:"id"`
	SessionID string       `json:"sessionId,omitempty"`
	Form      FormKind     `json:"form"`
	Contract  ContractName `json:"contract"`
	Function  FunctionName `json:"function"`
	Args      []string     `json:"args"`
	TxHash    string       `json:"txHash,omitempty"`
	State     FormState    `json:"state"`
	Message   string       `json:"message"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
