package handler

import (
	"net/http"

	"github.com/joestump/newspie/internal/catalog"
	"github.com/joestump/newspie/internal/news"
)

const countryCookie = "country"

// countryFromRequest reads the "country" cookie. Returns "" if absent or not
// a catalog country, so a stale or forged cookie means "no preference".
func countryFromRequest(r *http.Request, cat *catalog.Catalog) news.Country {
	c, err := r.Cookie(countryCookie)
	if err != nil {
		return ""
	}
	if !cat.HasCountry(c.Value) {
		return ""
	}
	return news.Country(c.Value)
}

// setCountryCookie persists c, or clears the cookie when c is empty.
func setCountryCookie(w http.ResponseWriter, c news.Country) {
	cookie := &http.Cookie{
		Name:     countryCookie,
		Value:    string(c),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	}
	if c == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
