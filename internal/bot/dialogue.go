package bot

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// API is the part of the blog API the bot drives.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	ResetPassword(ctx context.Context, token, oldPassword, newPassword string) error
}

const (
	CmdStart         = "start"
	CmdResetPassword = "reset_password"
	CmdCancel        = "cancel"
	CmdLogout        = "logout"
)

const (
	MsgAskEmail        = "Enter your email"
	MsgAskPassword     = "Enter your password"
	MsgAskOldPassword  = "Enter your old password"
	MsgAskNewPassword  = "Enter your new password"
	MsgLoginOK         = "You logged in successfully"
	MsgLoginFailed     = "Login failed: wrong email or password"
	MsgResetOK         = "Your password was changed successfully"
	MsgResetFailed     = "Password change failed"
	MsgLoginFirst      = "Please log in first with /start"
	MsgSessionExpired  = "Your session has expired, log in again with /start"
	MsgCancelled       = "Cancelled"
	MsgLoggedOut       = "You are logged out"
	MsgHelp            = "Use /start to log in or /reset_password to change your password"
	MsgTemporaryIssues = "Something went wrong, please try again later"
)

// Reply is what the bot answers to one incoming message. Secret marks the
// incoming message as carrying a password.
type Reply struct {
	Text   string
	Secret bool
}

// Dialogue runs the login and password reset conversations. All state lives
// in the store, so any number of bot processes can share it.
type Dialogue struct {
	Store  *StateStore
	API    API
	Logger *logrus.Logger
}

func NewDialogue(store *StateStore, api API, logger *logrus.Logger) *Dialogue {
	return &Dialogue{Store: store, API: api, Logger: logger}
}

// HandleCommand starts or aborts a dialogue.
func (d *Dialogue) HandleCommand(ctx context.Context, chatID int64, cmd string) (Reply, error) {
	switch cmd {
	case CmdStart:
		if err := d.Store.SaveSession(ctx, chatID, Session{Step: StepAwaitEmail}); err != nil {
			return Reply{Text: MsgTemporaryIssues}, err
		}
		return Reply{Text: MsgAskEmail}, nil
	case CmdResetPassword:
		tok, err := d.Store.Token(ctx, chatID)
		if err != nil {
			return Reply{Text: MsgTemporaryIssues}, err
		}
		if tok == "" {
			return Reply{Text: MsgLoginFirst}, nil
		}
		if err := d.Store.SaveSession(ctx, chatID, Session{Step: StepAwaitOldPassword}); err != nil {
			return Reply{Text: MsgTemporaryIssues}, err
		}
		return Reply{Text: MsgAskOldPassword}, nil
	case CmdCancel:
		if err := d.Store.ClearSession(ctx, chatID); err != nil {
			return Reply{Text: MsgTemporaryIssues}, err
		}
		return Reply{Text: MsgCancelled}, nil
	case CmdLogout:
		if err := d.Store.Forget(ctx, chatID); err != nil {
			return Reply{Text: MsgTemporaryIssues}, err
		}
		return Reply{Text: MsgLoggedOut}, nil
	default:
		return Reply{Text: MsgHelp}, nil
	}
}

// HandleText feeds a plain message into the chat's current step.
func (d *Dialogue) HandleText(ctx context.Context, chatID int64, text string) (Reply, error) {
	sess, err := d.Store.Session(ctx, chatID)
	if err != nil {
		return Reply{Text: MsgTemporaryIssues}, err
	}
	text = strings.TrimSpace(text)

	switch sess.Step {
	case StepAwaitEmail:
		sess.Email = text
		sess.Step = StepAwaitPassword
		if err := d.Store.SaveSession(ctx, chatID, sess); err != nil {
			return Reply{Text: MsgTemporaryIssues}, err
		}
		return Reply{Text: MsgAskPassword}, nil

	case StepAwaitPassword:
		if err := d.Store.ClearSession(ctx, chatID); err != nil {
			return Reply{Text: MsgTemporaryIssues, Secret: true}, err
		}
		return d.login(ctx, chatID, sess.Email, text)

	case StepAwaitOldPassword:
		sess.OldPassword = text
		sess.Step = StepAwaitNewPassword
		if err := d.Store.SaveSession(ctx, chatID, sess); err != nil {
			return Reply{Text: MsgTemporaryIssues, Secret: true}, err
		}
		return Reply{Text: MsgAskNewPassword, Secret: true}, nil

	case StepAwaitNewPassword:
		if err := d.Store.ClearSession(ctx, chatID); err != nil {
			return Reply{Text: MsgTemporaryIssues, Secret: true}, err
		}
		return d.resetPassword(ctx, chatID, sess.OldPassword, text)

	default:
		return Reply{Text: MsgHelp}, nil
	}
}

func (d *Dialogue) login(ctx context.Context, chatID int64, email, password string) (Reply, error) {
	tok, err := d.API.Login(ctx, email, password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return Reply{Text: MsgLoginFailed, Secret: true}, nil
		}
		return Reply{Text: MsgTemporaryIssues, Secret: true}, err
	}
	if err := d.Store.SetToken(ctx, chatID, tok); err != nil {
		return Reply{Text: MsgTemporaryIssues, Secret: true}, err
	}
	return Reply{Text: MsgLoginOK, Secret: true}, nil
}

func (d *Dialogue) resetPassword(ctx context.Context, chatID int64, oldPassword, newPassword string) (Reply, error) {
	tok, err := d.Store.Token(ctx, chatID)
	if err != nil {
		return Reply{Text: MsgTemporaryIssues, Secret: true}, err
	}
	if tok == "" {
		return Reply{Text: MsgLoginFirst, Secret: true}, nil
	}

	err = d.API.ResetPassword(ctx, tok, oldPassword, newPassword)
	if err == nil {
		return Reply{Text: MsgResetOK, Secret: true}, nil
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status >= http.StatusInternalServerError {
		return Reply{Text: MsgTemporaryIssues, Secret: true}, err
	}
	if apiErr.Status == http.StatusUnauthorized {
		if err := d.Store.ClearToken(ctx, chatID); err != nil {
			return Reply{Text: MsgTemporaryIssues, Secret: true}, err
		}
		return Reply{Text: MsgSessionExpired, Secret: true}, nil
	}
	msg := MsgResetFailed
	if apiErr.Message != "" {
		msg += ": " + apiErr.Message
	}
	return Reply{Text: msg, Secret: true}, nil
}
