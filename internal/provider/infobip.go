package provider

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Infobip sends SMS through the Infobip REST API using API-key auth. The
// account-specific base URL lives in the credential blob.
type Infobip struct {
	client *resty.Client
}

func NewInfobip(client *resty.Client) *Infobip {
	return &Infobip{client: client}
}

type infobipSendRequest struct {
	Messages []infobipMessage `json:"messages"`
}

type infobipMessage struct {
	From         string               `json:"from"`
	Destinations []infobipDestination `json:"destinations"`
	Text         string               `json:"text"`
}

type infobipDestination struct {
	To string `json:"to"`
}

type infobipSendResponse struct {
	Messages []struct {
		MessageID string `json:"messageId"`
		Status    struct {
			GroupName   string `json:"groupName"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"status"`
	} `json:"messages"`
}

type infobipErrorResponse struct {
	RequestError struct {
		ServiceException struct {
			MessageID string `json:"messageId"`
			Text      string `json:"text"`
		} `json:"serviceException"`
	} `json:"requestError"`
}

type infobipBalanceResponse struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

func normalizeBaseURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

func (i *Infobip) Send(ctx context.Context, creds Credentials, from, to, body string) (*SendResult, error) {
	apiKey := creds["apiKey"]
	baseURL := creds["baseUrl"]
	if apiKey == "" || baseURL == "" {
		return nil, &APIError{Kind: KindInfobip, Detail: "missing apiKey or baseUrl"}
	}

	var result infobipSendResponse
	var apiErr infobipErrorResponse

	resp, err := i.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "App "+apiKey).
		SetHeader("Accept", "application/json").
		SetBody(infobipSendRequest{
			Messages: []infobipMessage{{
				From:         from,
				Destinations: []infobipDestination{{To: to}},
				Text:         body,
			}},
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(normalizeBaseURL(baseURL) + "/sms/2/text/advanced")
	if err != nil {
		return nil, classifyTransportErr(err)
	}

	if resp.IsError() || len(result.Messages) == 0 {
		detail := apiErr.RequestError.ServiceException.Text
		if detail == "" {
			detail = "failed to send SMS"
		}
		return nil, &APIError{
			Kind:   KindInfobip,
			Code:   apiErr.RequestError.ServiceException.MessageID,
			Detail: detail,
		}
	}

	msg := result.Messages[0]
	switch msg.Status.GroupName {
	case "PENDING", "DELIVERED":
		return &SendResult{MessageID: msg.MessageID, Status: msg.Status.Name}, nil
	default:
		return nil, &APIError{
			Kind:   KindInfobip,
			Code:   msg.Status.Name,
			Detail: msg.Status.Description,
		}
	}
}

func (i *Infobip) TestConnection(ctx context.Context, creds Credentials) (*TestResult, error) {
	apiKey := creds["apiKey"]
	baseURL := creds["baseUrl"]
	if apiKey == "" {
		return &TestResult{OK: false, Message: "missing Infobip API key"}, nil
	}
	if baseURL == "" {
		return &TestResult{OK: false, Message: "missing Infobip base URL"}, nil
	}

	var balance infobipBalanceResponse

	resp, err := i.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "App "+apiKey).
		SetResult(&balance).
		Get(normalizeBaseURL(baseURL) + "/account/1/balance")
	if err != nil {
		return nil, classifyTransportErr(err)
	}

	if resp.IsError() {
		return &TestResult{
			OK:      false,
			Message: "Infobip authentication failed: " + resp.Status(),
		}, nil
	}

	return &TestResult{OK: true, Message: "Connected to Infobip"}, nil
}
