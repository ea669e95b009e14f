package webtext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchTextStripsScriptsAndCollapsesWhitespace(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><head><style>body{}</style><script>var x=1;</script></head>
<body><h1>Título</h1>
  <p>Hello
     world</p><noscript>enable js</noscript></body></html>`))
	}))
	defer srv.Close()

	text, err := NewFetcher(time.Second, 0).FetchText(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Título Hello world", text)
	require.Contains(t, gotUA, "Mozilla/5.0")
}

func TestFetchTextCapsLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>" + strings.Repeat("ñ", 50) + "</p>"))
	}))
	defer srv.Close()

	text, err := NewFetcher(time.Second, 10).FetchText(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("ñ", 10), text)
}

func TestFetchTextErrors(t *testing.T) {
	_, err := NewFetcher(time.Second, 0).FetchText(context.Background(), "ftp://example.com")
	require.ErrorContains(t, err, "fetching content from URL")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	_, err = NewFetcher(time.Second, 0).FetchText(context.Background(), srv.URL)
	require.ErrorContains(t, err, "status 404")
}
