package email

type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

type TemplateData map[string]any
