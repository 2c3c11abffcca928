package model

// Client describes a registered OAuth client: its shared secret and the
// redirect URIs it is allowed to use.
type Client struct {
	ID           string
	Secret       string
	RedirectURIs []string
}

// RedirectAllowed reports whether the client may use the given redirect URI.
// An empty allow-list accepts any URI; the caller still validates that the
// URI parses as absolute.
func (c Client) RedirectAllowed(uri string) bool {
	if len(c.RedirectURIs) == 0 {
		return true
	}
	for _, allowed := range c.RedirectURIs {
		if allowed == uri {
			return true
		}
	}
	return false
}

// ClientRegistry maps client IDs to registered clients. It is injected as
// configuration at startup.
type ClientRegistry map[string]Client

func (r ClientRegistry) Lookup(id string) (Client, bool) {
	c, ok := r[id]
	return c, ok
}
