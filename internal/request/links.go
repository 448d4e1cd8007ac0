// Package request builds the messaging deep links used to ask the station
// for a song.
package request

import (
	"net/url"
	"strings"

	"github.com/edward-ap/radiostream/internal/config"
)

// Link is one call-to-action shown by the request panel.
type Link struct {
	Label   string
	Message string
	URL     string
}

// Opener opens a URL in the system browser or messaging app.
type Opener interface {
	OpenURL(u *url.URL) error
}

// Escape percent-encodes s for the text query parameter, with spaces as %20.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildURL returns https://<service>/<number>?text=<message>. An empty
// message falls back to the contact's default message.
func BuildURL(c config.Contact, message string) string {
	if strings.TrimSpace(message) == "" {
		message = c.DefaultMessage
	}
	service := strings.TrimRight(c.Service, "/")
	if service == "" {
		service = config.DefaultMessagingService
	}
	return service + "/" + url.PathEscape(c.Number) + "?text=" + Escape(message)
}

// Links returns the primary call-to-action followed by one link per quick
// request, each prefixed by the contact greeting.
func Links(c config.Contact) []Link {
	out := make([]Link, 0, 1+len(c.QuickRequests))
	out = append(out, Link{
		Label:   "Request on WhatsApp",
		Message: c.DefaultMessage,
		URL:     BuildURL(c, c.DefaultMessage),
	})
	for _, q := range c.QuickRequests {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		msg := q
		if g := strings.TrimSpace(c.Greeting); g != "" {
			msg = g + " " + q
		}
		out = append(out, Link{Label: q, Message: msg, URL: BuildURL(c, msg)})
	}
	return out
}

// Open parses raw and hands it to o.
func Open(o Opener, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	return o.OpenURL(u)
}
