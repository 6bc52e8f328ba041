package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	"golang.org/x/oauth2"
)

// TokenError indicates the cached OAuth credential was rejected by the
// platform. The remedy is operational, not programmatic: delete the cached
// token file and run the upload again to re-authenticate.
type TokenError struct {
	TokenFile string
	Err       error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("cached token rejected: %v (delete %s and re-authenticate)", e.Err, e.TokenFile)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// loadToken reads a cached token from path. Any token that parses is
// trusted as-is; expiry is handled by the refresh flow at request time.
func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return token, nil
}

// saveToken overwrites path with the freshly issued token.
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// tokenFromWeb runs the interactive consent flow: a loopback listener
// receives the authorization code after the operator approves access in a
// browser. Headless runs fail here, which is the intended behavior.
func tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start consent listener: %w", err)
	}
	defer listener.Close()

	config.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	codeCh := make(chan string, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "missing authorization code", http.StatusBadRequest)
				return
			}
			fmt.Fprintln(w, "Authorization received. You can close this window.")
			codeCh <- code
		}),
	}
	go server.Serve(listener)
	defer server.Close()

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following URL in a browser to authorize uploads:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		token, err := config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}
		return token, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
