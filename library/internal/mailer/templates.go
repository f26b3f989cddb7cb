package mailer

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/pkg/errors"
)

const dateLayout = "02/01/2006"

type template struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func newTemplate(name, subject, text, html string) template {
	funcs := map[string]any{"date": func(t time.Time) string { return t.Format(dateLayout) }}
	return template{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New(name).Funcs(funcs).Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name).Funcs(funcs).Parse(html)),
	}
}

func (t template) render(to string, data any) (model.Mail, error) {
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return model.Mail{}, errors.Wrapf(err, "render %s text", t.text.Name())
	}
	if err := t.html.Execute(&html, data); err != nil {
		return model.Mail{}, errors.Wrapf(err, "render %s html", t.html.Name())
	}
	return model.Mail{To: to, Subject: t.subject, Text: text.String(), HTML: html.String()}, nil
}

var reservationConfirmed = newTemplate("reservation_confirmed",
	"Your Book Reservation is Confirmed",
	`Dear {{.Name}},

Your reservation for "{{.Title}}" by {{.Author}} is confirmed.
Reservation date: {{date .Date}}
Position in queue: {{.Position}}

We will let you know as soon as a copy is issued to you.

Library Management System
`,
	`<html><body>
<p>Dear {{.Name}},</p>
<p>Your reservation for <b>{{.Title}}</b> by {{.Author}} is confirmed.</p>
<table>
<tr><td>Reservation date</td><td>{{date .Date}}</td></tr>
<tr><td>Position in queue</td><td>{{.Position}}</td></tr>
</table>
<p>We will let you know as soon as a copy is issued to you.</p>
<p>Library Management System</p>
</body></html>
`)

var reservationFulfilled = newTemplate("reservation_fulfilled",
	"Your Reserved Book is Ready",
	`Dear {{.Name}},

A copy of "{{.Title}}" has been issued to you.
Due date: {{date .Date}}

Library Management System
`,
	`<html><body>
<p>Dear {{.Name}},</p>
<p>A copy of <b>{{.Title}}</b> has been issued to you.</p>
<p>Due date: {{date .Date}}</p>
<p>Library Management System</p>
</body></html>
`)

var dueReminder = newTemplate("due_reminder",
	"Library Loan Reminder",
	`Dear {{.Name}},

{{if .Overdue}}"{{.Title}}" was due on {{date .Date}} and is {{.Days}} day(s) overdue.{{else}}"{{.Title}}" is due on {{date .Date}}.{{end}}
Please return it to the library.

Library Management System
`,
	`<html><body>
<p>Dear {{.Name}},</p>
{{if .Overdue}}<p><b>{{.Title}}</b> was due on {{date .Date}} and is {{.Days}} day(s) overdue.</p>{{else}}<p><b>{{.Title}}</b> is due on {{date .Date}}.</p>{{end}}
<p>Please return it to the library.</p>
<p>Library Management System</p>
</body></html>
`)

var passwordResetCode = newTemplate("password_reset_code",
	"Library Password Reset Code",
	`Dear {{.Name}},

Your password reset code is {{.Code}}.
It is valid for {{.Minutes}} minutes. If you did not ask to reset your password, ignore this e-mail.

Library Management System
`,
	`<html><body>
<p>Dear {{.Name}},</p>
<p>Your password reset code is <b>{{.Code}}</b>.</p>
<p>It is valid for {{.Minutes}} minutes. If you did not ask to reset your password, ignore this e-mail.</p>
<p>Library Management System</p>
</body></html>
`)

type mailData struct {
	Name     string
	Title    string
	Author   string
	Date     time.Time
	Position int
	Overdue  bool
	Days     int64
	Code     string
	Minutes  int
}

func ReservationConfirmed(user model.User, book model.Book, r model.Reservation) (model.Mail, error) {
	return reservationConfirmed.render(user.Email, mailData{
		Name:     user.Name,
		Title:    book.Title,
		Author:   book.Author,
		Date:     r.ReservedDate,
		Position: r.QueuePosition,
	})
}

func ReservationFulfilled(user model.User, loan model.Loan) (model.Mail, error) {
	return reservationFulfilled.render(user.Email, mailData{
		Name:  user.Name,
		Title: loan.BookTitle,
		Date:  loan.DueDate,
	})
}

func DueReminder(user model.User, loan model.Loan, now time.Time) (model.Mail, error) {
	days := loan.OverdueDays(now)
	return dueReminder.render(user.Email, mailData{
		Name:    user.Name,
		Title:   loan.BookTitle,
		Date:    loan.DueDate,
		Overdue: days > 0,
		Days:    days,
	})
}

func PasswordResetCode(user model.User, code string, ttl time.Duration) (model.Mail, error) {
	return passwordResetCode.render(user.Email, mailData{
		Name:    user.Name,
		Code:    code,
		Minutes: int(ttl / time.Minute),
	})
}
