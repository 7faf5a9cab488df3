package sendGrid_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/pkg/sendGrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Cc      []map[string]string `json:"cc,omitempty"`
		Bcc     []map[string]string `json:"bcc,omitempty"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailService_Send(t *testing.T) {
	const apiKey = "SG.test-api-key"

	tests := []struct {
		name          string
		req           *models.EmailNotificationRequest
		status        int
		expectedError string
		checkPayload  func(t *testing.T, p sendgridV3Payload)
	}{
		{
			name: "Decision email with html body",
			req: &models.EmailNotificationRequest{
				To:          "dealer@example.com",
				Subject:     "Purchase request approved",
				Content:     "Your purchase request for Widget A was approved.",
				HTMLContent: "<p>Your purchase request for <b>Widget A</b> was approved.</p>",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				assert.Equal(t, "dealer@example.com", p.Personalizations[0].To[0]["email"])
				assert.Equal(t, "Purchase request approved", p.Personalizations[0].Subject)
				assert.Equal(t, "incentives@example.com", p.From["email"])
				assert.Equal(t, "Incentive Desk", p.From["name"])
				require.Len(t, p.Content, 2)
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "text/html", p.Content[1].Type)
			},
		},
		{
			name: "Plain text only with copies",
			req: &models.EmailNotificationRequest{
				To:      "dealer@example.com",
				CC:      []string{"manager@example.com"},
				BCC:     []string{"audit@example.com"},
				Subject: "Purchase request rejected",
				Content: "Your purchase request for Widget A was rejected: Out of budget",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				require.Len(t, p.Personalizations[0].Cc, 1)
				require.Len(t, p.Personalizations[0].Bcc, 1)
				require.Len(t, p.Content, 1)
				assert.Equal(t, "Your purchase request for Widget A was rejected: Out of budget", p.Content[0].Value)
			},
		},
		{
			name:          "API rejects the message",
			req:           &models.EmailNotificationRequest{To: "bad@example.com", Subject: "s", Content: "c"},
			status:        http.StatusBadRequest,
			expectedError: "failed to send email, status code: 400",
		},
		{
			name:          "API unavailable",
			req:           &models.EmailNotificationRequest{To: "dealer@example.com", Subject: "s", Content: "c"},
			status:        http.StatusInternalServerError,
			expectedError: "failed to send email, status code: 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var payload sendgridV3Payload

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v3/mail/send", r.URL.Path)
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			service := sendGrid.NewEmailService(apiKey, "incentives@example.com", "Incentive Desk", sendGrid.WithHost(server.URL))

			// Act
			err := service.Send(t.Context(), tc.req)

			// Assert
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			} else {
				require.NoError(t, err)
			}

			if tc.checkPayload != nil {
				tc.checkPayload(t, payload)
			}
		})
	}
}
