package service

import (
	"context"
	"errors"
	"fmt"

	"teleterm/internal/domain"

	"go.uber.org/zap"
)

// ErrAuthClosed is returned when the engine closes the authorization
// process before it reaches the ready state.
var ErrAuthClosed = errors.New("authorization closed by engine")

// Client is the transport surface the services depend on: fire-and-forget
// command submission plus the suspending update stream.
type Client interface {
	Send(query any) error
	Receive(ctx context.Context) (domain.Update, error)
}

// Prompter solicits a value from the user when the login flow needs input
// that was not pre-supplied.
type Prompter interface {
	Prompt(label string) (string, error)
}

// AuthConfig carries everything the login flow may need to submit.
type AuthConfig struct {
	Params        domain.SessionParams
	PhoneNumber   string // prompted for when empty
	EncryptionKey string // empty means unencrypted local database
}

// Authenticator drives the engine's authorization state machine to a
// terminal state. Transitions are driven entirely by the engine; this
// loop only answers each state it is shown.
type Authenticator struct {
	client   Client
	prompter Prompter
	cfg      AuthConfig
	logger   *zap.Logger
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(client Client, prompter Prompter, cfg AuthConfig, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		client:   client,
		prompter: prompter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run consumes updates until authorization reaches a terminal state. It
// returns nil once the session is ready, ErrAuthClosed if the engine
// closed the flow, and the context error if ctx is cancelled first. A
// state that recurs (for example a wrong code re-triggering the code
// prompt) simply re-executes its action.
func (a *Authenticator) Run(ctx context.Context) error {
	for {
		update, err := a.client.Receive(ctx)
		if err != nil {
			return err
		}
		if update.Type != domain.TypeUpdateAuthState {
			continue
		}

		var payload domain.AuthStateUpdate
		if err := update.Decode(&payload); err != nil {
			a.logger.Warn("Ignoring malformed authorization update", zap.Error(err))
			continue
		}
		state := payload.AuthorizationState.Type
		a.logger.Debug("Authorization state changed", zap.String("state", state))

		switch state {
		case domain.AuthStateWaitParameters:
			if err := a.client.Send(domain.NewSetParameters(a.cfg.Params)); err != nil {
				return err
			}

		case domain.AuthStateWaitEncryptionKey:
			if err := a.client.Send(domain.NewCheckEncryptionKey(a.cfg.EncryptionKey)); err != nil {
				return err
			}

		case domain.AuthStateWaitPhoneNumber:
			phone := a.cfg.PhoneNumber
			if phone == "" {
				phone, err = a.prompter.Prompt("Enter your phone number (international format)")
				if err != nil {
					return fmt.Errorf("read phone number: %w", err)
				}
			}
			if err := a.client.Send(domain.NewSetPhoneNumber(phone)); err != nil {
				return err
			}

		case domain.AuthStateWaitCode:
			code, err := a.prompter.Prompt("Enter the authentication code you received")
			if err != nil {
				return fmt.Errorf("read authentication code: %w", err)
			}
			if err := a.client.Send(domain.NewCheckCode(code)); err != nil {
				return err
			}

		case domain.AuthStateWaitPassword:
			password, err := a.prompter.Prompt("Enter your 2FA password")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if err := a.client.Send(domain.NewCheckPassword(password)); err != nil {
				return err
			}

		case domain.AuthStateWaitRegistration:
			firstName, err := a.prompter.Prompt("Enter your first name")
			if err != nil {
				return fmt.Errorf("read first name: %w", err)
			}
			lastName, err := a.prompter.Prompt("Enter your last name")
			if err != nil {
				return fmt.Errorf("read last name: %w", err)
			}
			if err := a.client.Send(domain.NewRegisterUser(firstName, lastName)); err != nil {
				return err
			}

		case domain.AuthStateReady:
			a.logger.Info("Authorization complete")
			return nil

		case domain.AuthStateClosed:
			return ErrAuthClosed

		default:
			// Transient states (logging out, closing) need no response.
		}
	}
}
