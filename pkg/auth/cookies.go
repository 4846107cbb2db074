// pkg/auth/cookies.go
package auth

import (
	"net/http"
	"time"
)

// Cookie names used for the session pair.
const (
	AccessCookieName  = "access"
	RefreshCookieName = "refresh"
)

const (
	accessCookiePath  = "/"
	refreshCookiePath = "/auth"
)

// CookieManager frames session tokens as scoped cookies. The access cookie
// rides on every request; the refresh cookie only reaches the auth sub-tree.
type CookieManager struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
}

func NewCookieManager(accessTTL, refreshTTL time.Duration, secure bool) *CookieManager {
	return &CookieManager{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		secure:     secure,
	}
}

func (cm *CookieManager) Access(token string) *http.Cookie {
	return cm.cookie(AccessCookieName, token, accessCookiePath, int(cm.accessTTL.Seconds()))
}

func (cm *CookieManager) Refresh(token string) *http.Cookie {
	return cm.cookie(RefreshCookieName, token, refreshCookiePath, int(cm.refreshTTL.Seconds()))
}

// ClearAccess re-issues the access cookie with zero lifetime.
func (cm *CookieManager) ClearAccess() *http.Cookie {
	return cm.cookie(AccessCookieName, "", accessCookiePath, -1)
}

// ClearRefresh re-issues the refresh cookie with zero lifetime.
func (cm *CookieManager) ClearRefresh() *http.Cookie {
	return cm.cookie(RefreshCookieName, "", refreshCookiePath, -1)
}

func (cm *CookieManager) cookie(name, value, path string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
