package gemini

// Wire types for generateContent. Field names and nesting must stay exactly
// as the service expects them.

type inlineData struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

type part struct {
	Text       *string     `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type request struct {
	Contents []content `json:"contents"`
}

type responsePart struct {
	Text *string `json:"text"`
}

type responseContent struct {
	Parts []responsePart `json:"parts"`
}

type candidate struct {
	Content *responseContent `json:"content"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type response struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error"`
}
