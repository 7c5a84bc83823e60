package conversation

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// InlineData is a base64 payload with its MIME type, embedded in a turn.
type InlineData struct {
	Data     string
	MIMEType string
}

// Part is either text or inline data; exactly one field is set.
type Part struct {
	Text       string
	InlineData *InlineData
}

type Turn struct {
	Role  Role
	Parts []Part
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func InlinePart(data, mimeType string) Part {
	return Part{InlineData: &InlineData{Data: data, MIMEType: mimeType}}
}

// Text joins the text parts of the turn.
func (t Turn) Text() string {
	var out string
	for _, p := range t.Parts {
		if p.InlineData != nil {
			continue
		}
		out += p.Text
	}
	return out
}

// HasInline reports whether the turn carries an inline attachment.
func (t Turn) HasInline() bool {
	for _, p := range t.Parts {
		if p.InlineData != nil {
			return true
		}
	}
	return false
}

func (t Turn) clone() Turn {
	parts := make([]Part, len(t.Parts))
	for i, p := range t.Parts {
		if p.InlineData != nil {
			data := *p.InlineData
			p.InlineData = &data
		}
		parts[i] = p
	}
	return Turn{Role: t.Role, Parts: parts}
}
