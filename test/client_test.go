//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/2beens/gymsession/internal/auth"

	"github.com/stretchr/testify/require"
)

// doJSON sends body as JSON on behalf of ownerID, checks the status and
// decodes the response into out when it is not nil.
func doJSON(
	ctx context.Context,
	t *testing.T,
	client *http.Client,
	method, path string,
	ownerID int64,
	body any,
	expectedStatus int,
	out any,
) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.ClientTokenHeader, testClientToken)
	req.Header.Set(auth.OwnerIDHeader, strconv.FormatInt(ownerID, 10))

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, string(respBytes))

	if out != nil {
		require.NoError(t, json.Unmarshal(respBytes, out))
	}
}
