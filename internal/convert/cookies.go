package convert

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"musicarr/internal/utils/logging"

	"github.com/browserutils/kooky"
	"golang.org/x/net/publicsuffix"

	// Use all browsers for Kooky:
	_ "github.com/browserutils/kooky/browser/all"
)

// CookieManager caches browser cookies per base domain.
type CookieManager struct {
	mu      sync.RWMutex
	cookies map[string][]*http.Cookie
}

// NewCookieManager initializes a new cookie manager instance.
func NewCookieManager() *CookieManager {
	return &CookieManager{
		cookies: make(map[string][]*http.Cookie),
	}
}

// GetCookies retrieves browser cookies for a given URL.
func (cm *CookieManager) GetCookies(ctx context.Context, u string) ([]*http.Cookie, error) {
	domain, err := baseDomain(u)
	if err != nil {
		return nil, fmt.Errorf("error extracting base domain in cookie grab: %w", err)
	}

	cm.mu.RLock()
	if cookies, ok := cm.cookies[domain]; ok {
		cm.mu.RUnlock()
		return cookies, nil
	}
	cm.mu.RUnlock()

	cookies := cm.loadCookiesForDomain(ctx, domain)

	cm.mu.Lock()
	cm.cookies[domain] = cookies
	cm.mu.Unlock()

	return cookies, nil
}

// loadCookiesForDomain loads the cookies associated with a particular domain.
func (cm *CookieManager) loadCookiesForDomain(ctx context.Context, domain string) []*http.Cookie {
	kookyCookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.Domain(domain))
	if err != nil {
		logging.D(2, "Failed reading cookies: %v", err)
		return nil
	}

	if len(kookyCookies) == 0 {
		logging.I("No cookies found for %s", domain)
		return nil
	}

	logging.I("Found %d cookies for %s", len(kookyCookies), domain)
	return convertToHTTPCookies(kookyCookies)
}

// convertToHTTPCookies converts kooky cookies to http.Cookie format.
func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, len(kookyCookies))
	for i, c := range kookyCookies {
		httpCookies[i] = &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Secure:  c.Secure,
			Expires: c.Expires,
		}
	}
	return httpCookies
}

// baseDomain extracts the effective TLD+1 from a URL.
func baseDomain(u string) (string, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", err
	}
	host := parsed.Hostname()
	if host == "" {
		return "", fmt.Errorf("no hostname in URL %q", u)
	}
	return publicsuffix.EffectiveTLDPlusOne(host)
}

// saveCookiesToFile saves the cookies to a file in Netscape format, ready to
// pass to yt-dlp via --cookies.
func saveCookiesToFile(cookies []*http.Cookie, cookieFilePath string) error {
	if len(cookies) == 0 {
		return fmt.Errorf("no cookies to write")
	}

	file, err := os.Create(cookieFilePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.E("failed to close file %q due to error: %v", cookieFilePath, err)
		}
	}()

	// Netscape cookies file header
	if _, err := file.WriteString("# Netscape HTTP Cookie File\n# https://curl.haxx.se/rfc/cookie_spec.html\n# This is a generated file! Do not edit.\n\n"); err != nil {
		return err
	}

	logging.D(1, "Saving %d cookies to file %s...", len(cookies), cookieFilePath)

	for _, cookie := range cookies {
		domain := cookie.Domain
		if !strings.HasPrefix(domain, ".") && strings.Count(domain, ".") > 1 {
			domain = "." + domain
		}

		secure := "FALSE"
		if cookie.Secure {
			secure = "TRUE"
		}

		var expires int64
		if !cookie.Expires.IsZero() {
			expires = cookie.Expires.Unix()
		}

		if _, err := fmt.Fprintf(file, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, "FALSE", cookie.Path, secure, expires, cookie.Name, cookie.Value); err != nil {
			return err
		}
	}
	return nil
}
