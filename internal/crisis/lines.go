package crisis

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/steady/internal/models"
)

// Lines are the built-in crisis lines.
var Lines = []models.CrisisLine{
	{Name: "988 Suicide & Crisis Lifeline", Phone: "988", SMS: "988", Region: "US"},
	{Name: "Crisis Text Line", SMS: "741741", Region: "US"},
	{Name: "Samaritans", Phone: "116123", Region: "UK/IE"},
	{Name: "Talk Suicide Canada", Phone: "988", SMS: "45645", Region: "CA"},
	{Name: "Lifeline Australia", Phone: "131114", SMS: "0477131114", Region: "AU"},
	{Name: "Emergency services", Phone: "911", Region: "US/CA"},
	{Name: "Emergency services", Phone: "112", Region: "EU"},
}

// FindLine looks up a built-in line by case-insensitive name or number.
func FindLine(ref string) (models.CrisisLine, bool) {
	ref = strings.TrimSpace(strings.ToLower(ref))
	for _, l := range Lines {
		if strings.ToLower(l.Name) == ref || l.Phone == ref || l.SMS == ref {
			return l, true
		}
	}
	for _, l := range Lines {
		if strings.Contains(strings.ToLower(l.Name), ref) {
			return l, true
		}
	}
	return models.CrisisLine{}, false
}

// dialable strips formatting so the number works in a tel: or sms: URI.
func dialable(number string) string {
	var b strings.Builder
	for i, r := range number {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TelURI returns the tel: URI for a number.
func TelURI(number string) (string, error) {
	n := dialable(number)
	if n == "" {
		return "", fmt.Errorf("no dialable number in %q", number)
	}
	return "tel:" + n, nil
}

// SMSURI returns the sms: URI for a number with an optional prefilled body.
func SMSURI(number, body string) (string, error) {
	n := dialable(number)
	if n == "" {
		return "", fmt.Errorf("no dialable number in %q", number)
	}
	uri := "sms:" + n
	if body != "" {
		uri += "?body=" + strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
	}
	return uri, nil
}
