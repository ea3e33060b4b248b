package mcapi

// SaveMeta mirrors the meta block the model layer expects from a save.
type SaveMeta struct {
	Success         bool              `json:"success"`
	Message         string            `json:"message,omitempty"`
	MessageClass    string            `json:"message_class,omitempty"`
	ValidationError map[string]string `json:"validationError,omitempty"`
}

type SaveResponse struct {
	Meta   SaveMeta       `json:"meta"`
	Result map[string]any `json:"result,omitempty"`
}

// LoadResponse wraps a record or list as {"results": ...}. Href is set for
// lists that have their own address.
type LoadResponse struct {
	Href    string `json:"href,omitempty"`
	Results any    `json:"results"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func saved(result map[string]any) SaveResponse {
	return SaveResponse{Meta: SaveMeta{Success: true}, Result: result}
}

func invalid(fields map[string]string) SaveResponse {
	return SaveResponse{Meta: SaveMeta{ValidationError: fields}}
}

func rejected(message, class string) SaveResponse {
	return SaveResponse{Meta: SaveMeta{Message: message, MessageClass: class}}
}
