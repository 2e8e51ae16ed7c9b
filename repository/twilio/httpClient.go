package twiliorepo

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielSousa07/Backend-Ludus/util/httpx"
)

type httpRepo struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

func NewHTTP(accountSID, authToken, fromNumber string) Repo {
	return &httpRepo{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client:     httpx.Client(),
	}
}

func (r *httpRepo) SendSMS(toPhone, body string) error {
	form := url.Values{}
	form.Set("From", r.fromNumber)
	// Phones are stored as bare Brazilian digits.
	form.Set("To", "+55"+toPhone)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", r.accountSID)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(r.accountSID, r.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio send failed: %s", resp.Status)
	}
	return nil
}
