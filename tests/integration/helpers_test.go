//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/jimmycarrlin/zero2prod/internal/testutil"
	"github.com/stretchr/testify/require"
)

// cleanState truncates subscription data and clears the email stub so tests
// do not observe each other.
func cleanState(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(),
		"TRUNCATE subscription_tokens, subscriptions")
	require.NoError(t, err)
	emailServer.Reset()
}

type subscriberRow struct {
	Email  string
	Name   string
	Status string
}

// fetchSubscriber reads the single stored subscriber row.
func fetchSubscriber(t *testing.T) subscriberRow {
	t.Helper()
	var row subscriberRow
	err := testDB.QueryRow(context.Background(),
		"SELECT email, name, status FROM subscriptions").
		Scan(&row.Email, &row.Name, &row.Status)
	require.NoError(t, err)
	return row
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var count int
	err := testDB.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&count)
	require.NoError(t, err)
	return count
}

var linkPattern = regexp.MustCompile(`https?://[^\s"<>]+`)

// confirmationLink extracts the confirmation URL from a captured email and
// rewrites it against the test server.
func confirmationLink(t *testing.T, email testutil.CapturedEmail) string {
	t.Helper()

	htmlLink := linkPattern.FindString(email.HTMLBody)
	textLink := linkPattern.FindString(email.TextBody)
	require.NotEmpty(t, htmlLink)
	require.Equal(t, htmlLink, textLink)

	parsed, err := url.Parse(htmlLink)
	require.NoError(t, err)
	return parsed.Path + "?" + parsed.RawQuery
}

// subscribeConfirmed drives a subscriber through the full lifecycle.
func subscribeConfirmed(t *testing.T, client *testutil.Client, name, email string) {
	t.Helper()

	resp, err := client.POSTForm("/subscriptions", testutil.FormBody(name, email))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	received := emailServer.Received()
	require.NotEmpty(t, received)
	link := confirmationLink(t, received[len(received)-1])

	resp, err = client.GET(link)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}
