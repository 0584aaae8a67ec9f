package mailer

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"corpsite/internal/domain"
	"corpsite/pkg/richtext"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02.01.2006 15:04") },
}).ParseFS(templateFS, "templates/*.html"))

// ContactData fills both contact templates.
type ContactData struct {
	SiteName    string
	SiteURL     string
	FullName    string
	Email       string
	Phone       string
	Subject     string
	Message     string
	ServiceName string
	Locale      string
	IP          string
	CreatedAt   time.Time
	AdminURL    string
}

type replyStrings struct {
	Subject  string
	Greeting string
	Body     string
	Quote    string
	Closing  string
}

var replyText = map[string]replyStrings{
	domain.LocaleAZ: {
		Subject:  "Müraciətiniz qəbul edildi",
		Greeting: "Hörmətli",
		Body:     "Müraciətiniz üçün təşəkkür edirik. Əməkdaşlarımız ən qısa zamanda sizinlə əlaqə saxlayacaq.",
		Quote:    "Göndərdiyiniz mesaj",
		Closing:  "Hörmətlə",
	},
	domain.LocaleEN: {
		Subject:  "We received your message",
		Greeting: "Dear",
		Body:     "Thank you for contacting us. Our team will get back to you shortly.",
		Quote:    "Your message",
		Closing:  "Best regards",
	},
	domain.LocaleRU: {
		Subject:  "Ваше обращение получено",
		Greeting: "Уважаемый(ая)",
		Body:     "Спасибо за обращение. Наши специалисты свяжутся с вами в ближайшее время.",
		Quote:    "Ваше сообщение",
		Closing:  "С уважением",
	},
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ContactAdminMessage is the notification sent to site staff.
func ContactAdminMessage(to []string, d ContactData) (Message, error) {
	body, err := render("contact_admin.html", d)
	if err != nil {
		return Message{}, err
	}
	subject := "New contact message: " + d.FullName
	if d.Subject != "" {
		subject += " (" + d.Subject + ")"
	}
	return Message{To: to, ReplyTo: d.Email, Subject: subject, HTML: body, Text: richtext.PlainText(body)}, nil
}

// ContactReplyMessage is the auto-reply sent to the visitor in their locale.
func ContactReplyMessage(d ContactData) (Message, error) {
	s, ok := replyText[d.Locale]
	if !ok {
		s = replyText[domain.DefaultLocale]
	}
	body, err := render("contact_reply.html", struct {
		ContactData
		T replyStrings
	}{d, s})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{d.Email}, Subject: s.Subject + " | " + d.SiteName, HTML: body}, nil
}
