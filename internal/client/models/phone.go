// Package models holds the static reference data the client is configured with.
package models

// PhoneProfile describes one authenticator platform offered during 2FA
// enrollment.
type PhoneProfile struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	AppURL string `json:"app_url"`
}

// DefaultPhones are the platforms offered when configuration supplies none.
func DefaultPhones() []PhoneProfile {
	return []PhoneProfile{
		{Title: "iPhone", Slug: "iphone", AppURL: "http://itunes.apple.com/us/app/google-authenticator/id388497605?mt=8"},
		{Title: "Android", Slug: "android", AppURL: "https://play.google.com/store/apps/details?id=com.google.android.apps.authenticator2"},
		{Title: "BlackBerry", Slug: "blackberry", AppURL: "m.google.com/authenticator"},
	}
}

// FindPhone looks slug up in phones.
func FindPhone(phones []PhoneProfile, slug string) (PhoneProfile, bool) {
	for _, p := range phones {
		if p.Slug == slug {
			return p, true
		}
	}
	return PhoneProfile{}, false
}
