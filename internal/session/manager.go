package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

// Manager ties sessions in a Store to the visitor's cookie.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(store Store, cfg *config.Session) *Manager {
	return &Manager{
		store:      store,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
	}
}

// Load returns the session named by the request cookie. Visitors without a
// cookie, or whose session has expired, get a fresh anonymous session that is
// not persisted until Renew is called.
func (m *Manager) Load(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return models.NewSession(uuid.NewString()), nil
	}

	if _, err := uuid.Parse(cookie.Value); err != nil {
		return models.NewSession(uuid.NewString()), nil
	}

	sess, found, err := m.store.Get(r.Context(), cookie.Value)
	if err != nil {
		return models.NewSession(uuid.NewString()), err
	}

	if !found {
		return models.NewSession(uuid.NewString()), nil
	}

	return sess, nil
}

// Save persists sess under its current id.
func (m *Manager) Save(ctx context.Context, sess *models.Session) error {
	return m.store.Save(ctx, sess, m.ttl)
}

// Renew moves sess to a new id, persists it and points the cookie at it.
// Called on every login so a session id is never reused across identities.
func (m *Manager) Renew(ctx context.Context, w http.ResponseWriter, sess *models.Session) error {
	oldID := sess.ID
	sess.ID = uuid.NewString()

	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		sess.ID = oldID
		return err
	}

	if oldID != "" {
		if err := m.store.Delete(ctx, oldID); err != nil {
			return fmt.Errorf("failed to drop previous session: %w", err)
		}
	}

	http.SetCookie(w, m.cookie(sess.ID, int(m.ttl.Seconds())))

	return nil
}

// Destroy removes the stored session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *models.Session) error {
	http.SetCookie(w, m.cookie("", -1))

	return m.store.Delete(ctx, sess.ID)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
