package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	testOrg    = uuid.New()
	testAdmin  = models.Viewer{UserID: uuid.New(), Role: models.RoleAdmin, OrganizationID: testOrg}
	testClient = models.Viewer{UserID: uuid.New(), Role: models.RoleClient, OrganizationID: testOrg}
)

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()

	body, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(body)
}

// decodeResponse unmarshals the envelope and, when data is non-nil, its payload.
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, data any) response.APIResponse {
	t.Helper()

	var envelope struct {
		Success bool                    `json:"success"`
		Data    json.RawMessage         `json:"data"`
		Error   *response.ErrorResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))

	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}

	return response.APIResponse{Success: envelope.Success, Error: envelope.Error}
}
