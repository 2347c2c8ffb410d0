package cart

import (
	"net/http"
	"time"

	"github.com/MarcGrol/marketplace/lib/myuuid"
)

const (
	OwnerCookieName = "marketplace-cart"
	ownerCookieTTL  = 365 * 24 * time.Hour
)

// ResolveOwner returns the cart owner of the visitor and hands out a new one on first use
func ResolveOwner(w http.ResponseWriter, r *http.Request, uuider myuuid.UUIDer) string {
	cookie, err := r.Cookie(OwnerCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	owner := uuider.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     OwnerCookieName,
		Value:    owner,
		Path:     "/",
		Expires:  time.Now().Add(ownerCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return owner
}
