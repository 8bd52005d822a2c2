package services

import "github.com/tringuyenminh209/Kizamu/models"

// Mailer dispatches account emails. Delivery is an external collaborator; the
// default implementation does nothing.
type Mailer interface {
	SendVerificationEmail(user *models.User) error
}

// NoopMailer is used until a real mail transport is wired up.
type NoopMailer struct{}

func (NoopMailer) SendVerificationEmail(*models.User) error { return nil }
