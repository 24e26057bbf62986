// Package smtp provides the mail transport used by the notification
// sender, behind interfaces so the sender can be tested without a
// mail server.
package smtp

import "io"

// Client is the subset of *smtp.Client the sender needs.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface opens SMTP client connections.
type TransportInterface interface {
	Connect() (Client, error)
	From() string
}
