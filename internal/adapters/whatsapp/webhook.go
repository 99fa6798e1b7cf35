package whatsapp

import "strings"

// Webhook is the subset of the Cloud API notification payload we read.
type Webhook struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				MessagingProduct string `json:"messaging_product"`
				Messages         []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      *struct {
						Body string `json:"body"`
					} `json:"text,omitempty"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Inbound is one text message received from a user.
type Inbound struct {
	ID   string
	From string
	Text string
}

// TextMessages flattens the payload into its text messages, in order.
// Status updates and non-text messages are ignored.
func (w Webhook) TextMessages() []Inbound {
	var out []Inbound
	for _, e := range w.Entry {
		for _, ch := range e.Changes {
			for _, m := range ch.Value.Messages {
				if m.Type != "text" || m.Text == nil || strings.TrimSpace(m.Text.Body) == "" {
					continue
				}
				out = append(out, Inbound{ID: m.ID, From: m.From, Text: m.Text.Body})
			}
		}
	}
	return out
}
