// Package notify sends the owner emails for request decisions and closed
// rounds.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"go.uber.org/zap"
)

// ErrDelivery wraps every failure to hand a message to the transport.
var ErrDelivery = errors.New("notification delivery failed")

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	if s.Logger != nil {
		s.Logger.Info("notification not sent, smtp disabled",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
	return nil
}

const approvedText = `Dear {{.FirstName}} {{.LastName}},

your Tragedy of the Commons game has been approved.

Game number: {{.GameID}}
Test game number: {{.TestGameID}}

Students join at {{.BaseURL}}/play with the password {{.Password}}.
Try the test game first with the password {{.TestPassword}}.
Manage your game at {{.BaseURL}}/games/{{.GameID}}/manage.
`

const disapprovedText = `Dear {{.FirstName}} {{.LastName}},

your request for a Tragedy of the Commons game was not approved.
{{if .Reason}}
Reason: {{.Reason}}
{{end}}`

const roundText = `Round {{.RoundNumber}} of game {{.GameID}} has been played.

The class results are at {{.ResultsPage}}
`

var templates = func() *template.Template {
	root := template.New("approved")
	template.Must(root.Parse(approvedText))
	template.Must(root.New("disapproved").Parse(disapprovedText))
	template.Must(root.New("round").Parse(roundText))
	return root
}()

type Owner struct {
	Email     string
	FirstName string
	LastName  string
}

type Mailer struct {
	sender  Sender
	from    string
	baseURL string
}

func NewMailer(sender Sender, from, baseURL string) *Mailer {
	return &Mailer{sender: sender, from: from, baseURL: baseURL}
}

func (m *Mailer) RequestApproved(ctx context.Context, owner Owner, gameID, testGameID uint) error {
	return m.send(ctx, owner.Email, "Your Tragedy of the Commons game is ready", "approved", map[string]any{
		"FirstName":    owner.FirstName,
		"LastName":     owner.LastName,
		"GameID":       gameID,
		"TestGameID":   testGameID,
		"Password":     fmt.Sprintf("%s-%d", owner.LastName, gameID),
		"TestPassword": fmt.Sprintf("%s-%d", owner.LastName, testGameID),
		"BaseURL":      m.baseURL,
	})
}

func (m *Mailer) RequestDisapproved(ctx context.Context, owner Owner, reason string) error {
	return m.send(ctx, owner.Email, "Your Tragedy of the Commons request", "disapproved", map[string]any{
		"FirstName": owner.FirstName,
		"LastName":  owner.LastName,
		"Reason":    reason,
	})
}

func (m *Mailer) RoundPlayed(ctx context.Context, owner Owner, gameID uint, roundNumber int) error {
	return m.send(ctx, owner.Email, fmt.Sprintf("Round %d played", roundNumber), "round", map[string]any{
		"GameID":      gameID,
		"RoundNumber": roundNumber,
		"ResultsPage": m.ResultsPage(gameID),
	})
}

// ResultsPage is the absolute URL of a game's class results.
func (m *Mailer) ResultsPage(gameID uint) string {
	return fmt.Sprintf("%s/games/%d/results", m.baseURL, gameID)
}

func (m *Mailer) send(ctx context.Context, to, subject, name string, data any) error {
	if to == "" {
		return fmt.Errorf("%w: no recipient", ErrDelivery)
	}
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrDelivery, name, err)
	}
	if err := m.sender.Send(ctx, Message{To: to, Subject: subject, Body: body.String()}); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}
