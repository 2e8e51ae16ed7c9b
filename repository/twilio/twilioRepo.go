package twiliorepo

// Repo sends SMS through the Twilio REST API.
type Repo interface {
	SendSMS(toPhone, body string) error
}
