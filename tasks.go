package main

import "log"

// Mailer delivers outbound notification mail. The real transport lives
// outside this service; the default implementation only logs.
type Mailer interface {
	Send(to, subject, body string) error
}

type logMailer struct{}

func (logMailer) Send(to, subject, body string) error {
	log.Printf("mail to=%s subject=%q", to, subject)
	return nil
}

var mailer Mailer = logMailer{}

// dispatch hands work to the background, fire and forget. Completion is not
// tracked; a failure is only logged.
func dispatch(task func() error) {
	go func() {
		if err := task(); err != nil {
			log.Printf("background task failed: %v", err)
		}
	}()
}

func sendConfirmationMail(email, token string) {
	dispatch(func() error {
		return mailer.Send(email, "Confirm your account",
			"Follow /users/confirm/"+token+" to confirm your account.")
	})
}

func sendRecoveryMail(email, token string) {
	dispatch(func() error {
		return mailer.Send(email, "Password recovery",
			"Follow /users/recovery/"+token+" to reset your password.")
	})
}
