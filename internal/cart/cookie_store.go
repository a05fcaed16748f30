package cart

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const DefaultCookieName = "cart"

// CookieStore keeps the cart on the client as base64-encoded JSON.
type CookieStore struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{Name: DefaultCookieName, Secure: secure, MaxAge: 30 * 24 * time.Hour}
}

// Load decodes the cart cookie. A missing or unreadable cookie yields an
// empty cart rather than an error.
func (s *CookieStore) Load(r *http.Request) (*Cart, error) {
	cookie, err := r.Cookie(s.Name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return &Cart{Lines: []Line{}}, nil
		}
		return nil, err
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return &Cart{Lines: []Line{}}, nil
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return &Cart{Lines: []Line{}}, nil
	}

	// drop anything a client could have forged
	valid := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		if len(valid) == MaxLines {
			break
		}
		if l.ProductID > 0 && l.Quantity >= 1 && l.Quantity <= MaxQuantity {
			valid = append(valid, l)
		}
	}
	c.Lines = valid
	return &c, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, c *Cart) error {
	if len(c.Lines) > MaxLines {
		return ErrCartFull
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   int(s.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
