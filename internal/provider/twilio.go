package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// Twilio sends SMS through the Twilio REST API using basic auth.
type Twilio struct {
	client  *resty.Client
	baseURL string
}

func NewTwilio(client *resty.Client) *Twilio {
	return &Twilio{client: client, baseURL: twilioBaseURL}
}

// NewTwilioWithBaseURL points the adapter at a non-default API host.
func NewTwilioWithBaseURL(client *resty.Client, baseURL string) *Twilio {
	return &Twilio{client: client, baseURL: baseURL}
}

type twilioMessageResponse struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
}

type twilioErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type twilioAccountResponse struct {
	FriendlyName string `json:"friendly_name"`
}

func (t *Twilio) Send(ctx context.Context, creds Credentials, from, to, body string) (*SendResult, error) {
	accountSid := creds["accountSid"]
	authToken := creds["authToken"]
	if accountSid == "" || authToken == "" {
		return nil, &APIError{Kind: KindTwilio, Detail: "missing accountSid or authToken"}
	}

	var result twilioMessageResponse
	var apiErr twilioErrorResponse

	resp, err := t.client.R().
		SetContext(ctx).
		SetBasicAuth(accountSid, authToken).
		SetFormData(map[string]string{
			"From": from,
			"To":   to,
			"Body": body,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, accountSid))
	if err != nil {
		return nil, classifyTransportErr(err)
	}

	if resp.IsError() {
		detail := apiErr.Message
		if detail == "" {
			detail = resp.Status()
		}
		return nil, &APIError{
			Kind:   KindTwilio,
			Code:   fmt.Sprintf("%d", apiErr.Code),
			Detail: detail,
		}
	}

	return &SendResult{MessageID: result.Sid, Status: result.Status}, nil
}

func (t *Twilio) TestConnection(ctx context.Context, creds Credentials) (*TestResult, error) {
	accountSid := creds["accountSid"]
	authToken := creds["authToken"]
	if accountSid == "" || authToken == "" {
		return &TestResult{OK: false, Message: "missing accountSid or authToken"}, nil
	}

	var account twilioAccountResponse

	resp, err := t.client.R().
		SetContext(ctx).
		SetBasicAuth(accountSid, authToken).
		SetResult(&account).
		Get(fmt.Sprintf("%s/Accounts/%s.json", t.baseURL, accountSid))
	if err != nil {
		return nil, classifyTransportErr(err)
	}

	if resp.StatusCode() != http.StatusOK {
		return &TestResult{
			OK:      false,
			Message: fmt.Sprintf("Twilio authentication failed: %s", resp.Status()),
		}, nil
	}

	return &TestResult{
		OK:      true,
		Message: fmt.Sprintf("Connected to Twilio account: %s", account.FriendlyName),
	}, nil
}
