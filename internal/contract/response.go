package contract

// Envelope is the uniform success wrapper of the API. Error bodies are
// produced by the apierror package and carry success=false instead.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func Success(data any) *Envelope {
	return &Envelope{Success: true, Data: data}
}
