package auth

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Views are plain templ components; no JS framework, the forms post and
// the server redirects.

func page(title, theme string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html data-theme=%q><head><meta charset="utf-8"><title>%s</title></head><body>`,
			html.EscapeString(theme), html.EscapeString(title),
		); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func message(w io.Writer, msg string) error {
	if msg == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<p class="message">%s</p>`, html.EscapeString(msg))
	return err
}

type LoginPageParams struct {
	Email        string
	ErrorMessage string
	Theme        string
}

func LoginPage(p LoginPageParams) templ.Component {
	return page("Login", p.Theme, func(w io.Writer) error {
		if err := message(w, p.ErrorMessage); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/auth/login">`+
				`<input type="email" name="email" value=%q required>`+
				`<input type="password" name="password" required>`+
				`<button type="submit">Log in</button>`+
				`</form>`+
				`<a href="/auth/forgot">Forgot password?</a> <a href="/auth/register">Register</a>`,
			html.EscapeString(p.Email))
		return err
	})
}

type RegisterPageParams struct {
	Name         string
	Email        string
	ErrorMessage string
	Theme        string
}

func RegisterPage(p RegisterPageParams) templ.Component {
	return page("Register", p.Theme, func(w io.Writer) error {
		if err := message(w, p.ErrorMessage); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/auth/register">`+
				`<input type="text" name="name" value=%q required>`+
				`<input type="email" name="email" value=%q required>`+
				`<input type="password" name="password" required>`+
				`<input type="number" name="age">`+
				`<button type="submit">Register</button>`+
				`</form>`,
			html.EscapeString(p.Name), html.EscapeString(p.Email))
		return err
	})
}

type ForgotPageParams struct {
	Message string
	Theme   string
}

func ForgotPage(p ForgotPageParams) templ.Component {
	return page("Password reset", p.Theme, func(w io.Writer) error {
		if err := message(w, p.Message); err != nil {
			return err
		}
		_, err := io.WriteString(w,
			`<form method="post" action="/auth/forgot">`+
				`<input type="email" name="email" required>`+
				`<button type="submit">Send reset link</button>`+
				`</form>`)
		return err
	})
}

type ResetPageParams struct {
	// Token is empty when the link is invalid or expired; no form is
	// rendered in that state.
	Token   string
	Message string
	Theme   string
}

func ResetPage(p ResetPageParams) templ.Component {
	return page("Choose a new password", p.Theme, func(w io.Writer) error {
		if err := message(w, p.Message); err != nil {
			return err
		}
		if p.Token == "" {
			_, err := io.WriteString(w, `<a href="/auth/forgot">Request a new link</a>`)
			return err
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/auth/reset/%s">`+
				`<input type="password" name="password" required minlength="6">`+
				`<button type="submit">Set password</button>`+
				`</form>`,
			html.EscapeString(p.Token))
		return err
	})
}
